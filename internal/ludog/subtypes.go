package ludog

// StatementKind discriminates the R16 subtypes of Statement.
type StatementKind string

const (
	StatementExpressionStatement StatementKind = "expression_statement"
	StatementLetStatement        StatementKind = "let_statement"
	StatementItem                StatementKind = "item"
)

// StatementSubtype is the R16 tag of a Statement. ID is empty for Item.
type StatementSubtype struct {
	Kind StatementKind `json:"kind" yaml:"kind"`
	ID   string        `json:"id,omitempty" yaml:"id,omitempty"`
}

// ExpressionKind discriminates the R15 subtypes of Expression.
type ExpressionKind string

const (
	ExpressionBlock              ExpressionKind = "block"
	ExpressionCall               ExpressionKind = "call"
	ExpressionOperator           ExpressionKind = "operator"
	ExpressionIntegerLiteral     ExpressionKind = "integer_literal"
	ExpressionBooleanLiteral     ExpressionKind = "boolean_literal"
	ExpressionVariableExpression ExpressionKind = "variable_expression"
)

// ExpressionSubtype is the R15 tag of an Expression.
type ExpressionSubtype struct {
	Kind ExpressionKind `json:"kind" yaml:"kind"`
	ID   string         `json:"id" yaml:"id"`
}

// OperatorKind discriminates the R47 subtypes of Operator.
type OperatorKind string

const (
	OperatorBinary   OperatorKind = "binary"
	OperatorNegation OperatorKind = "negation"
)

// OperatorSubtype is the R47 tag of an Operator. ID is empty for Negation.
type OperatorSubtype struct {
	Kind OperatorKind `json:"kind" yaml:"kind"`
	ID   string       `json:"id,omitempty" yaml:"id,omitempty"`
}

// BinaryKind is the R48 unit subtype of Binary.
type BinaryKind string

const (
	Addition       BinaryKind = "addition"
	Subtraction    BinaryKind = "subtraction"
	Multiplication BinaryKind = "multiplication"
)

// BooleanKind is the R22 unit subtype of BooleanLiteral.
type BooleanKind string

const (
	True  BooleanKind = "true"
	False BooleanKind = "false"
)

// Bool returns the Go value of k.
func (k BooleanKind) Bool() bool { return k == True }

func booleanKind(v bool) BooleanKind {
	if v {
		return True
	}
	return False
}

// StatementVariant is the concrete record behind a Statement:
// *ExpressionStatement, *LetStatement or Item.
type StatementVariant interface{ isStatementVariant() }

// ExpressionVariant is the concrete record behind an Expression: *Block,
// *Call, *Operator, *IntegerLiteral, *BooleanLiteral or *VariableExpression.
type ExpressionVariant interface{ isExpressionVariant() }

// OperatorVariant is the concrete record behind an Operator: *Binary or
// Negation.
type OperatorVariant interface{ isOperatorVariant() }

// Item is the unit Statement variant.
type Item struct{}

// Negation is the unit Operator variant.
type Negation struct{}

func (*ExpressionStatement) isStatementVariant() {}
func (*LetStatement) isStatementVariant()        {}
func (Item) isStatementVariant()                 {}

func (*Block) isExpressionVariant()              {}
func (*Call) isExpressionVariant()               {}
func (*Operator) isExpressionVariant()           {}
func (*IntegerLiteral) isExpressionVariant()     {}
func (*BooleanLiteral) isExpressionVariant()     {}
func (*VariableExpression) isExpressionVariant() {}

func (*Binary) isOperatorVariant() {}
func (Negation) isOperatorVariant() {}
