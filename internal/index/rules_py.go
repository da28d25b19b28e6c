package index

// pythonRules maps the tree-sitter-python grammar onto the extraction model.
// Decorated definitions are reached by recursion; the decorated_definition
// wrapper itself matches no rule.
var pythonRules = languageRules{
	classKinds: map[string]bool{
		"class_definition": true,
	},
	functionKinds: map[string]bool{
		"function_definition": true,
	},
	importKinds: map[string]bool{
		"import_statement": true,
	},
	importFromKinds: map[string]bool{
		"import_from_statement": true,
	},
	callKinds: map[string]bool{
		"call": true,
	},
	nameField:       "name",
	calleeFields:    []string{"function"},
	fromModuleField: "module_name",
	moduleRefKinds: map[string]bool{
		"dotted_name":     true,
		"aliased_import":  true,
		"relative_import": true,
	},
}
