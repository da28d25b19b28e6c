package index

// typescriptRules maps the tree-sitter-typescript grammar onto the
// extraction model. Interfaces and enums are class-like containers.
// new_expression is a call alias: constructing a class references its name
// the same way calling a function does.
var typescriptRules = languageRules{
	classKinds: map[string]bool{
		"class_declaration":          true,
		"abstract_class_declaration": true,
		"interface_declaration":      true,
		"enum_declaration":           true,
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
