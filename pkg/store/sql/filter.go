package sql

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/query"
	"github.com/chemviz/chemviz/pkg/query/parser"
)

// typeCountExpr is the number of rows of one equipment type in a dataset, 0 when the
// dataset has none.
const typeCountExpr = "COALESCE((SELECT dataset_equipment_types.count FROM dataset_equipment_types" +
	" WHERE dataset_equipment_types.dataset_id = datasets.dataset_id" +
	" AND dataset_equipment_types.type = ?), 0)"

// applyFilters adds one WHERE condition per comparison in filter to transaction.
func applyFilters(transaction *gorm.DB, filter string) *contract.Error {
	conditions, err := query.ParseFilter(filter)
	if err != nil {
		return contract.NewErrorWith(
			contract.ErrorCode_INVALID_PARAMETER_VALUE,
			"error parsing history filter",
			err,
		)
	}

	logrus.Debugf("Filter conditions: %#v", conditions)

	// Only postgres has ILIKE; elsewhere compare lower-cased values with LIKE.
	emulateILike := transaction.Dialector.Name() != "postgres"

	for _, condition := range conditions {
		comparison := condition.Operator.String()
		value := condition.Value

		switch condition.Identifier {
		case parser.EquipmentType:
			transaction.Where(fmt.Sprintf("%s %s ?", typeCountExpr, comparison), condition.Key, value)
		case parser.Attribute:
			column := "datasets." + condition.Key

			if condition.Operator == parser.ILike && emulateILike {
				column = fmt.Sprintf("LOWER(%s)", column)
				comparison = "LIKE"

				if str, ok := value.(string); ok {
					value = strings.ToLower(str)
				}
			}

			switch condition.Operator {
			case parser.In, parser.NotIn:
				transaction.Where(fmt.Sprintf("%s %s (?)", column, comparison), value)
			default:
				transaction.Where(fmt.Sprintf("%s %s ?", column, comparison), value)
			}
		}
	}

	return nil
}
