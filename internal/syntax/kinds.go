package syntax

// Node kinds produced by the tree-sitter TSX and TypeScript grammars that the
// analyzer inspects.
const (
	KindProgram = "program"
	KindComment = "comment"
	KindError   = "ERROR"

	// JSX
	KindJSXElement            = "jsx_element"
	KindJSXOpeningElement     = "jsx_opening_element"
	KindJSXClosingElement     = "jsx_closing_element"
	KindJSXSelfClosingElement = "jsx_self_closing_element"
	KindJSXAttribute          = "jsx_attribute"
	KindJSXExpression         = "jsx_expression"
	KindJSXText               = "jsx_text"
	KindJSXNamespaceName      = "jsx_namespace_name"
	KindHTMLCharacterRef      = "html_character_reference"

	// Expressions
	KindIdentifier              = "identifier"
	KindPropertyIdentifier      = "property_identifier"
	KindShorthandPropertyID     = "shorthand_property_identifier"
	KindMemberExpression        = "member_expression"
	KindCallExpression          = "call_expression"
	KindArguments               = "arguments"
	KindObject                  = "object"
	KindArray                   = "array"
	KindPair                    = "pair"
	KindSpreadElement           = "spread_element"
	KindMethodDefinition        = "method_definition"
	KindString                  = "string"
	KindStringFragment          = "string_fragment"
	KindEscapeSequence          = "escape_sequence"
	KindTemplateString          = "template_string"
	KindTemplateSubstitution    = "template_substitution"
	KindNumber                  = "number"
	KindTrue                    = "true"
	KindFalse                   = "false"
	KindNull                    = "null"
	KindUndefined               = "undefined"
	KindParenthesizedExpression = "parenthesized_expression"
	KindUnaryExpression         = "unary_expression"
	KindArrowFunction           = "arrow_function"
	KindFunctionExpression      = "function_expression"
	KindFunction                = "function"
	KindGeneratorFunction       = "generator_function"
	KindClass                   = "class"

	// Declarations and statements
	KindImportStatement         = "import_statement"
	KindImportClause            = "import_clause"
	KindNamespaceImport         = "namespace_import"
	KindNamedImports            = "named_imports"
	KindImportSpecifier         = "import_specifier"
	KindFunctionDeclaration     = "function_declaration"
	KindGeneratorFunctionDecl   = "generator_function_declaration"
	KindClassDeclaration        = "class_declaration"
	KindLexicalDeclaration      = "lexical_declaration"
	KindVariableDeclaration     = "variable_declaration"
	KindVariableDeclarator      = "variable_declarator"
	KindStatementBlock          = "statement_block"
	KindForStatement            = "for_statement"
	KindForInStatement          = "for_in_statement"
	KindCatchClause             = "catch_clause"
	KindFormalParameters        = "formal_parameters"
	KindRequiredParameter       = "required_parameter"
	KindOptionalParameter       = "optional_parameter"
	KindObjectPattern           = "object_pattern"
	KindArrayPattern            = "array_pattern"
	KindPairPattern             = "pair_pattern"
	KindAssignmentPattern       = "assignment_pattern"
	KindObjectAssignmentPattern = "object_assignment_pattern"
	KindRestPattern             = "rest_pattern"
	KindShorthandPropertyIDPat  = "shorthand_property_identifier_pattern"
)
