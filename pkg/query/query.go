// Package query parses the filter language accepted by the dataset history.
package query

import (
	"fmt"
	"strings"

	"github.com/chemviz/chemviz/pkg/query/lexer"
	"github.com/chemviz/chemviz/pkg/query/parser"
)

// ParseFilter turns a filter such as `avg_pressure > 4 AND types.Pump >= 2` into
// validated comparisons. An empty filter yields no comparisons.
func ParseFilter(input string) ([]*parser.ValidCompareExpr, error) {
	if strings.TrimSpace(input) == "" {
		return make([]*parser.ValidCompareExpr, 0), nil
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("error while lexing %s: %w", input, err)
	}

	ast, err := parser.Parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("error while parsing %s: %w", input, err)
	}

	validExpressions := make([]*parser.ValidCompareExpr, 0, len(ast.Exprs))

	for _, expr := range ast.Exprs {
		ve, err := parser.ValidateExpression(expr)
		if err != nil {
			return nil, fmt.Errorf("error while validating %s: %w", input, err)
		}

		validExpressions = append(validExpressions, ve)
	}

	return validExpressions, nil
}
