package index

// rustRules maps the tree-sitter-rust grammar onto the extraction model.
// use_declaration targets keep their scoped form ("a::b::c") verbatim; the
// resolver treats raw reference text as written in source.
var rustRules = languageRules{
	classKinds: map[string]bool{
		"struct_item": true,
		"enum_item":   true,
		"trait_item":  true,
	},
	functionKinds: map[string]bool{
		"function_item": true,
	},
	importKinds: map[string]bool{
		"use_declaration": true,
	},
	callKinds: map[string]bool{
		"call_expression": true,
	},
	nameField:    "name",
	calleeFields: []string{"function"},
	moduleField:  "argument",
}
