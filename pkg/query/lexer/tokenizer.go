package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

type Error struct {
	message string
}

func NewLexerError(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.message
}

type regexHandler func(lex *lexer, match string)

type regexPattern struct {
	regex   *regexp.Regexp
	handler regexHandler
}

// Patterns are tried in order and must be anchored; two character operators come
// before their one character prefixes.
//
//nolint:gochecknoglobals
var patterns = []regexPattern{
	{regexp.MustCompile(`^\s+`), skipHandler},
	{regexp.MustCompile(`^"[^"]*"`), stringHandler},
	{regexp.MustCompile(`^'[^']*'`), stringHandler},
	{regexp.MustCompile("^`[^`]*`"), stringHandler},
	{regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`), tokenHandler(Number)},
	{regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`), symbolHandler},
	{regexp.MustCompile(`^\(`), tokenHandler(OpenParen)},
	{regexp.MustCompile(`^\)`), tokenHandler(CloseParen)},
	{regexp.MustCompile(`^(!=|<>)`), tokenHandler(NotEquals)},
	{regexp.MustCompile(`^==?`), tokenHandler(Equals)},
	{regexp.MustCompile(`^<=`), tokenHandler(LessEquals)},
	{regexp.MustCompile(`^<`), tokenHandler(Less)},
	{regexp.MustCompile(`^>=`), tokenHandler(GreaterEquals)},
	{regexp.MustCompile(`^>`), tokenHandler(Greater)},
	{regexp.MustCompile(`^\.`), tokenHandler(Dot)},
	{regexp.MustCompile(`^,`), tokenHandler(Comma)},
}

type lexer struct {
	tokens []Token
	source string
	pos    int
}

// Tokenize splits a filter expression into tokens terminated by an EOF token.
func Tokenize(source string) ([]Token, error) {
	lex := &lexer{
		source: source,
		tokens: make([]Token, 0),
	}

	for !lex.atEOF() {
		matched := false

		for _, pattern := range patterns {
			if match := pattern.regex.FindString(lex.remainder()); match != "" {
				pattern.handler(lex, match)

				matched = true

				break
			}
		}

		if !matched {
			return lex.tokens, NewLexerError("unrecognized token at position %d near '%v'", lex.pos, lex.remainder())
		}
	}

	lex.push(EOF, "EOF")

	return lex.tokens, nil
}

func (lex *lexer) remainder() string {
	return lex.source[lex.pos:]
}

func (lex *lexer) atEOF() bool {
	return lex.pos >= len(lex.source)
}

func (lex *lexer) push(kind TokenKind, value string) {
	lex.tokens = append(lex.tokens, Token{Kind: kind, Value: value, Pos: lex.pos})
}

func tokenHandler(kind TokenKind) regexHandler {
	return func(lex *lexer, match string) {
		lex.push(kind, match)
		lex.pos += len(match)
	}
}

func stringHandler(lex *lexer, match string) {
	lex.push(String, match)
	lex.pos += len(match)
}

func symbolHandler(lex *lexer, match string) {
	if kind, found := reserved[strings.ToUpper(match)]; found {
		lex.push(kind, match)
	} else {
		lex.push(Identifier, match)
	}

	lex.pos += len(match)
}

func skipHandler(lex *lexer, match string) {
	lex.pos += len(match)
}
