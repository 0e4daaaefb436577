package parser

// --------------------
// Literal Expressions
// --------------------

type Value interface {
	value() interface{}
}

type NumberExpr struct {
	Value float64
}

func (n NumberExpr) value() interface{} { return n.Value }

type StringExpr struct {
	Value string
}

func (n StringExpr) value() interface{} { return n.Value }

type StringListExpr struct {
	Values []string
}

func (n StringListExpr) value() interface{} { return n.Values }

// ----------------------
// Identifier Expressions
// ----------------------

// Identifier is an optional prefix and a key, like types.Pump or total_count.
type Identifier struct {
	Identifier string
	Key        string
}

// --------------------
// Comparison Expression
// --------------------

type OperatorKind int

const (
	Equals OperatorKind = iota
	NotEquals
	Less
	LessEquals
	Greater
	GreaterEquals
	Like
	ILike
	In
	NotIn
)

//nolint:gochecknoglobals
var operatorSQL = map[OperatorKind]string{
	Equals:        "=",
	NotEquals:     "!=",
	Less:          "<",
	LessEquals:    "<=",
	Greater:       ">",
	GreaterEquals: ">=",
	Like:          "LIKE",
	ILike:         "ILIKE",
	In:            "IN",
	NotIn:         "NOT IN",
}

// String returns the SQL spelling of the operator.
func (op OperatorKind) String() string {
	return operatorSQL[op]
}

// CompareExpr is a single comparison: left operator right.
type CompareExpr struct {
	Left     Identifier
	Operator OperatorKind
	Right    Value
}

// AndExpr is a conjunction of comparisons.
type AndExpr struct {
	Exprs []*CompareExpr
}
