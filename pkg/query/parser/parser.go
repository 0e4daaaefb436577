package parser

import (
	"fmt"
	"strconv"

	"github.com/chemviz/chemviz/pkg/query/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
}

type Error struct {
	message string
}

func NewParserError(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.message
}

func (p *parser) currentToken() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) currentTokenKind() lexer.TokenKind {
	return p.currentToken().Kind
}

func (p *parser) hasTokens() bool {
	return p.pos < len(p.tokens) && p.currentTokenKind() != lexer.EOF
}

func (p *parser) advance() lexer.Token {
	token := p.currentToken()
	if token.Kind != lexer.EOF {
		p.pos++
	}

	return token
}

func (p *parser) unexpected(expected string) *Error {
	token := p.currentToken()

	return NewParserError("expected %s at position %d, got %s", expected, token.Pos, token.Debug())
}

func unquote(value string) string {
	return value[1 : len(value)-1]
}

func (p *parser) parseIdentifier() (Identifier, error) {
	if p.currentTokenKind() != lexer.Identifier {
		return Identifier{}, p.unexpected("identifier")
	}

	first := p.advance().Value

	if p.currentTokenKind() != lexer.Dot {
		return Identifier{Key: first}, nil
	}

	p.advance() // Consume the DOT

	switch p.currentTokenKind() {
	case lexer.Identifier, lexer.Number:
		return Identifier{Identifier: first, Key: p.advance().Value}, nil
	case lexer.String:
		return Identifier{Identifier: first, Key: unquote(p.advance().Value)}, nil
	default:
		return Identifier{}, p.unexpected("identifier or string after '.'")
	}
}

func (p *parser) parseOperator() (OperatorKind, error) {
	//nolint:exhaustive
	switch p.currentTokenKind() {
	case lexer.Equals:
		p.advance()

		return Equals, nil
	case lexer.NotEquals:
		p.advance()

		return NotEquals, nil
	case lexer.Less:
		p.advance()

		return Less, nil
	case lexer.LessEquals:
		p.advance()

		return LessEquals, nil
	case lexer.Greater:
		p.advance()

		return Greater, nil
	case lexer.GreaterEquals:
		p.advance()

		return GreaterEquals, nil
	case lexer.Like:
		p.advance()

		return Like, nil
	case lexer.ILike:
		p.advance()

		return ILike, nil
	default:
		return -1, p.unexpected("operator")
	}
}

func (p *parser) parseValue() (Value, error) {
	//nolint:exhaustive
	switch p.currentTokenKind() {
	case lexer.Number:
		token := p.advance()

		n, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("number %s could not be parsed: %w", token.Value, err)
		}

		return NumberExpr{Value: n}, nil
	case lexer.String:
		return StringExpr{Value: unquote(p.advance().Value)}, nil
	default:
		return nil, p.unexpected("number or string")
	}
}

func (p *parser) parseInSetExpr(ident Identifier, operator OperatorKind) (*CompareExpr, error) {
	if p.currentTokenKind() != lexer.OpenParen {
		return nil, p.unexpected("'('")
	}

	p.advance() // Consume the OPEN_PAREN

	set := make([]string, 0)

	for p.hasTokens() && p.currentTokenKind() != lexer.CloseParen {
		if p.currentTokenKind() != lexer.String {
			return nil, p.unexpected("string")
		}

		set = append(set, unquote(p.advance().Value))

		if p.currentTokenKind() == lexer.Comma {
			p.advance() // Consume the COMMA
		}
	}

	if p.currentTokenKind() != lexer.CloseParen {
		return nil, p.unexpected("')'")
	}

	p.advance() // Consume the CLOSE_PAREN

	if len(set) == 0 {
		return nil, NewParserError("%s requires at least one value", operator)
	}

	return &CompareExpr{Left: ident, Operator: operator, Right: StringListExpr{Values: set}}, nil
}

func (p *parser) parseExpression() (*CompareExpr, error) {
	ident, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	//nolint:exhaustive
	switch p.currentTokenKind() {
	case lexer.In:
		p.advance() // Consume the IN

		return p.parseInSetExpr(ident, In)
	case lexer.Not:
		p.advance() // Consume the NOT

		if p.currentTokenKind() != lexer.In {
			return nil, p.unexpected("IN after NOT")
		}

		p.advance() // Consume the IN

		return p.parseInSetExpr(ident, NotIn)
	default:
		operator, err := p.parseOperator()
		if err != nil {
			return nil, err
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		return &CompareExpr{Left: ident, Operator: operator, Right: value}, nil
	}
}

func (p *parser) parse() (*AndExpr, error) {
	exprs := make([]*CompareExpr, 0)

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	exprs = append(exprs, expr)

	for p.currentTokenKind() == lexer.And {
		p.advance() // Consume the AND

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)
	}

	if p.hasTokens() {
		return nil, p.unexpected("AND or end of filter")
	}

	return &AndExpr{Exprs: exprs}, nil
}

// Parse builds the comparison list from tokens produced by lexer.Tokenize.
func Parse(tokens []lexer.Token) (*AndExpr, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		return nil, NewParserError("token stream is not terminated")
	}

	p := &parser{tokens: tokens}

	return p.parse()
}
