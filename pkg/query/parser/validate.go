package parser

import (
	"fmt"
	"strings"
)

/*

Validation type-checks the untyped tree against the dataset history.

Grammar rule: [identifier.]key operator value

Without an identifier the key names a dataset attribute. The "types" identifier
compares the number of rows of one equipment type, e.g. types.Pump >= 2 or
types."Heat Exchanger" = 0.

*/

type ValidIdentifier int

const (
	Attribute ValidIdentifier = iota
	EquipmentType
)

func (v ValidIdentifier) String() string {
	switch v {
	case Attribute:
		return "attribute"
	case EquipmentType:
		return "types"
	default:
		return "unknown"
	}
}

type ValidCompareExpr struct {
	Identifier ValidIdentifier
	// Key is the column for attributes and the equipment type name for types.
	Key      string
	Operator OperatorKind
	// Value is a float64, a string or a []string.
	Value interface{}
}

type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(format string, a ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, a...)}
}

func parseValidIdentifier(identifier string) (ValidIdentifier, error) {
	switch strings.ToLower(identifier) {
	case "", "attribute", "attributes", "attr", "dataset", "datasets":
		return Attribute, nil
	case "type", "types", "equipment_type", "equipment_types":
		return EquipmentType, nil
	default:
		return -1, NewValidationError("invalid identifier %q, expected attribute or types", identifier)
	}
}

type attributeKind int

const (
	numericAttribute attributeKind = iota
	textAttribute
)

type attribute struct {
	column string
	kind   attributeKind
}

//nolint:gochecknoglobals
var searchableAttributes = map[string]attribute{
	"id":              {column: "dataset_id", kind: numericAttribute},
	"name":            {column: "name", kind: textAttribute},
	"uploaded_at":     {column: "uploaded_at", kind: numericAttribute},
	"total_count":     {column: "total_count", kind: numericAttribute},
	"rejected_rows":   {column: "rejected_rows", kind: numericAttribute},
	"avg_flowrate":    {column: "avg_flowrate", kind: numericAttribute},
	"avg_pressure":    {column: "avg_pressure", kind: numericAttribute},
	"avg_temperature": {column: "avg_temperature", kind: numericAttribute},
}

//nolint:gochecknoglobals
var searchableAttributeNames = []string{
	"id", "name", "uploaded_at", "total_count", "rejected_rows",
	"avg_flowrate", "avg_pressure", "avg_temperature",
}

func validateNumber(subject string, operator OperatorKind, value Value) (interface{}, error) {
	switch operator {
	case Equals, NotEquals, Less, LessEquals, Greater, GreaterEquals:
	case Like, ILike, In, NotIn:
		return nil, NewValidationError("operator %s is not supported for numeric %s", operator, subject)
	}

	number, ok := value.(NumberExpr)
	if !ok {
		return nil, NewValidationError("expected a numeric value for %s, found %v", subject, value.value())
	}

	return number.Value, nil
}

func validateText(subject string, operator OperatorKind, value Value) (interface{}, error) {
	switch operator {
	case Less, LessEquals, Greater, GreaterEquals:
		return nil, NewValidationError("operator %s is not supported for %s", operator, subject)
	case In, NotIn:
		return value.value(), nil
	case Equals, NotEquals, Like, ILike:
	}

	text, ok := value.(StringExpr)
	if !ok {
		return nil, NewValidationError("expected a quoted string value for %s, found %v", subject, value.value())
	}

	return text.Value, nil
}

// ValidateExpression checks that the key exists and that operator and value fit its type.
func ValidateExpression(expression *CompareExpr) (*ValidCompareExpr, error) {
	identifier, err := parseValidIdentifier(expression.Left.Identifier)
	if err != nil {
		return nil, err
	}

	switch identifier {
	case EquipmentType:
		typeName := strings.TrimSpace(expression.Left.Key)
		if typeName == "" {
			return nil, NewValidationError("types requires an equipment type name")
		}

		value, err := validateNumber("types."+typeName, expression.Operator, expression.Right)
		if err != nil {
			return nil, err
		}

		return &ValidCompareExpr{
			Identifier: EquipmentType,
			Key:        typeName,
			Operator:   expression.Operator,
			Value:      value,
		}, nil
	default:
		attr, ok := searchableAttributes[strings.ToLower(expression.Left.Key)]
		if !ok {
			return nil, NewValidationError(
				"invalid attribute key %q. Allowed values are %v",
				expression.Left.Key,
				searchableAttributeNames,
			)
		}

		var value interface{}
		if attr.kind == numericAttribute {
			value, err = validateNumber(expression.Left.Key, expression.Operator, expression.Right)
		} else {
			value, err = validateText(expression.Left.Key, expression.Operator, expression.Right)
		}

		if err != nil {
			return nil, err
		}

		return &ValidCompareExpr{
			Identifier: Attribute,
			Key:        attr.column,
			Operator:   expression.Operator,
			Value:      value,
		}, nil
	}
}
