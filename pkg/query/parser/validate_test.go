package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemviz/chemviz/pkg/query"
	"github.com/chemviz/chemviz/pkg/query/parser"
)

func TestValidQueries(t *testing.T) {
	t.Parallel()

	samples := []string{
		"total_count > 3",
		"avg_flowrate >= 10.5 AND avg_temperature < 100",
		"name = 'pumps.csv'",
		"name ILIKE '%plant%'",
		"name IN ('a.csv', 'b.csv')",
		"types.Pump >= 2",
		"types.\"Heat Exchanger\" = 0",
		"attributes.id != 4",
		"datasets.uploaded_at > 1700000000000",
		"rejected_rows = 0",
	}

	for _, sample := range samples {
		sample := sample
		t.Run(sample, func(t *testing.T) {
			t.Parallel()

			_, err := query.ParseFilter(sample)
			assert.NoError(t, err)
		})
	}
}

func TestInvalidQueries(t *testing.T) {
	t.Parallel()

	samples := []string{
		"flowrate > 3",
		"metrics.accuracy > 0.9",
		"total_count = 'three'",
		"total_count LIKE '3%'",
		"name > 'a'",
		"name = 3",
		"types.Pump = 'two'",
		"types.Pump IN ('1')",
		"avg_pressure IN ('1')",
	}

	for _, sample := range samples {
		sample := sample
		t.Run(sample, func(t *testing.T) {
			t.Parallel()

			_, err := query.ParseFilter(sample)
			assert.Error(t, err)
		})
	}
}

func TestValidatedExpression(t *testing.T) {
	conditions, err := query.ParseFilter("id <= 7 AND types.Valve > 1 AND name IN ('x')")
	require.NoError(t, err)
	require.Len(t, conditions, 3)

	assert.Equal(t, &parser.ValidCompareExpr{
		Identifier: parser.Attribute,
		Key:        "dataset_id",
		Operator:   parser.LessEquals,
		Value:      7.0,
	}, conditions[0])
	assert.Equal(t, &parser.ValidCompareExpr{
		Identifier: parser.EquipmentType,
		Key:        "Valve",
		Operator:   parser.Greater,
		Value:      1.0,
	}, conditions[1])
	assert.Equal(t, []string{"x"}, conditions[2].Value)
}

func TestEmptyFilter(t *testing.T) {
	conditions, err := query.ParseFilter("  ")
	require.NoError(t, err)
	assert.Empty(t, conditions)
}
