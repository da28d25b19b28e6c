package index

// goRules maps the tree-sitter-go grammar onto the extraction model.
// type_spec (inside type_declaration) covers structs and interfaces, which
// are the closest class-like construct; methods are plain functions here
// since the data model has no method kind.
var goRules = languageRules{
	classKinds: map[string]bool{
		"type_spec": true,
	},
	functionKinds: map[string]bool{
		"function_declaration": true,
		"method_declaration":   true,
	},
	importKinds: map[string]bool{
		"import_spec": true,
	},
	callKinds: map[string]bool{
		"call_expression": true,
	},
	nameField:    "name",
	calleeFields: []string{"function"},
	moduleField:  "path",
}
