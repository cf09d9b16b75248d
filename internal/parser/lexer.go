package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer splits REPL input into keywords, identifiers and integers.
// Keywords are matched case-insensitively and only as whole words, so ids
// such as "to_base" stay identifiers.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:assign|to|at|pass|resolve|move|all|from|with|combat|play|for|round|retreat|show|status|systems|units|leaders|missions|objectives|cards|log|restart|help|quit|exit)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Command] {
	return participle.MustBuild[Command](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Keyword"),
	)
}

var defaultParser = Build()

// Parse reads one command line. Failures come back as usage guidance.
func Parse(input string) (*Command, error) {
	cmd, err := defaultParser.ParseString("", input)
	if err != nil {
		return nil, MapError(input, err)
	}
	return cmd, nil
}
