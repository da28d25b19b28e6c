package index

// javascriptRules maps the tree-sitter-javascript grammar onto the
// extraction model. The grammar shares its import and call shapes with
// TypeScript but has no interface or enum declarations.
var javascriptRules = languageRules{
	classKinds: map[string]bool{
		"class_declaration": true,
	},
	functionKinds: map[string]bool{
		"function_declaration":           true,
		"generator_function_declaration": true,
		"method_definition":              true,
	},
	importKinds: map[string]bool{
		"import_statement": true,
	},
	callKinds: map[string]bool{
		"call_expression": true,
		"new_expression":  true,
	},
	nameField:    "name",
	calleeFields: []string{"function", "constructor"},
	moduleField:  "source",
}
