package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemviz/chemviz/pkg/query/lexer"
	"github.com/chemviz/chemviz/pkg/query/parser"
)

func parse(t *testing.T, input string) (*parser.AndExpr, error) {
	t.Helper()

	tokens, err := lexer.Tokenize(input)
	require.NoError(t, err)

	return parser.Parse(tokens)
}

func TestParse(t *testing.T) {
	samples := []struct {
		input    string
		expected *parser.AndExpr
	}{
		{
			input: "avg_pressure > 4.5",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Key: "avg_pressure"},
						Operator: parser.Greater,
						Right:    parser.NumberExpr{Value: 4.5},
					},
				},
			},
		},
		{
			input: "total_count >= 3 AND name ILIKE 'plant%'",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Key: "total_count"},
						Operator: parser.GreaterEquals,
						Right:    parser.NumberExpr{Value: 3},
					},
					{
						Left:     parser.Identifier{Key: "name"},
						Operator: parser.ILike,
						Right:    parser.StringExpr{Value: "plant%"},
					},
				},
			},
		},
		{
			input: `types."Heat Exchanger" != 0`,
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Identifier: "types", Key: "Heat Exchanger"},
						Operator: parser.NotEquals,
						Right:    parser.NumberExpr{Value: 0},
					},
				},
			},
		},
		{
			input: "name NOT IN ('a.csv', 'b.csv')",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Key: "name"},
						Operator: parser.NotIn,
						Right:    parser.StringListExpr{Values: []string{"a.csv", "b.csv"}},
					},
				},
			},
		},
	}

	for _, sample := range samples {
		t.Run(sample.input, func(t *testing.T) {
			ast, err := parse(t, sample.input)
			require.NoError(t, err)
			assert.Equal(t, sample.expected, ast)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{
		"avg_pressure",
		"avg_pressure >",
		"> 4",
		"name IN ()",
		"name IN ('a'",
		"name NOT 'a'",
		"name IN (1, 2)",
		"total_count > 3 total_count < 5",
		"types. = 3",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := parse(t, input)
			assert.Error(t, err)
		})
	}
}

func TestOperatorString(t *testing.T) {
	assert.Equal(t, ">=", parser.GreaterEquals.String())
	assert.Equal(t, "NOT IN", parser.NotIn.String())
	assert.Equal(t, "ILIKE", parser.ILike.String())
}
