package ludog

// Entity type names, as used in errors, logs and the catalog.
const (
	EntityBlock               = "Block"
	EntityStatement           = "Statement"
	EntityExpressionStatement = "ExpressionStatement"
	EntityLetStatement        = "LetStatement"
	EntityLocalVariable       = "LocalVariable"
	EntityExpression          = "Expression"
	EntityCall                = "Call"
	EntityArgument            = "Argument"
	EntityOperator            = "Operator"
	EntityBinary              = "Binary"
	EntityIntegerLiteral      = "IntegerLiteral"
	EntityBooleanLiteral      = "BooleanLiteral"
	EntityVariableExpression  = "VariableExpression"
)

// Block is a braced sequence of statements.
type Block struct {
	BlockID string `json:"id" yaml:"id"`
}

func (b *Block) ID() string { return b.BlockID }

// Statement is one statement of a block. Statements of a block form a list
// through R17; Index is the position in source order.
type Statement struct {
	StatementID string           `json:"id" yaml:"id"`
	Index       int64            `json:"index" yaml:"index"`
	BlockID     string           `json:"block_id" yaml:"block_id"`                   // R18
	NextID      string           `json:"next_id,omitempty" yaml:"next_id,omitempty"` // R17, optional
	Subtype     StatementSubtype `json:"subtype" yaml:"subtype"`                     // R16
}

func (s *Statement) ID() string { return s.StatementID }

// ExpressionStatement evaluates an expression for its effect.
type ExpressionStatement struct {
	ExpressionStatementID string `json:"id" yaml:"id"`
	ExpressionID          string `json:"expression_id" yaml:"expression_id"` // R31
}

func (e *ExpressionStatement) ID() string { return e.ExpressionStatementID }

// LetStatement binds the value of an expression to a local variable.
type LetStatement struct {
	LetStatementID string `json:"id" yaml:"id"`
	ExpressionID   string `json:"expression_id" yaml:"expression_id"` // R20
	VariableID     string `json:"variable_id" yaml:"variable_id"`     // R21
}

func (l *LetStatement) ID() string { return l.LetStatementID }

// LocalVariable is a name introduced by a let.
type LocalVariable struct {
	LocalVariableID string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
}

func (v *LocalVariable) ID() string { return v.LocalVariableID }

// Expression is the R15 supertype of everything that yields a value.
type Expression struct {
	ExpressionID string            `json:"id" yaml:"id"`
	Subtype      ExpressionSubtype `json:"subtype" yaml:"subtype"`
}

func (e *Expression) ID() string { return e.ExpressionID }

// Call invokes a callee expression with the arguments linked to it by R28.
type Call struct {
	CallID   string `json:"id" yaml:"id"`
	ArgCheck bool   `json:"arg_check" yaml:"arg_check"`
	CalleeID string `json:"callee_id,omitempty" yaml:"callee_id,omitempty"` // R29, optional
}

func (c *Call) ID() string { return c.CallID }

// Argument is one positional argument of a call. Arguments of a call form a
// list through R27.
type Argument struct {
	ArgumentID   string `json:"id" yaml:"id"`
	Position     int64  `json:"position" yaml:"position"`
	CallID       string `json:"call_id" yaml:"call_id"`                     // R28
	ExpressionID string `json:"expression_id" yaml:"expression_id"`         // R37
	NextID       string `json:"next_id,omitempty" yaml:"next_id,omitempty"` // R27, optional
}

func (a *Argument) ID() string { return a.ArgumentID }

// Operator applies a unary or binary operation. Negation has no right hand
// side.
type Operator struct {
	OperatorID string          `json:"id" yaml:"id"`
	LHSID      string          `json:"lhs_id" yaml:"lhs_id"`                     // R50
	RHSID      string          `json:"rhs_id,omitempty" yaml:"rhs_id,omitempty"` // R51, optional
	Subtype    OperatorSubtype `json:"subtype" yaml:"subtype"`                   // R47
}

func (o *Operator) ID() string { return o.OperatorID }

// Binary names a binary operation. There is one Binary per kind.
type Binary struct {
	BinaryID string     `json:"id" yaml:"id"`
	Kind     BinaryKind `json:"kind" yaml:"kind"` // R48
}

func (b *Binary) ID() string { return b.BinaryID }

// IntegerLiteral is a literal integer.
type IntegerLiteral struct {
	IntegerLiteralID string `json:"id" yaml:"id"`
	Value            int64  `json:"value" yaml:"value"`
}

func (l *IntegerLiteral) ID() string { return l.IntegerLiteralID }

// BooleanLiteral is true or false. There is one BooleanLiteral per value.
type BooleanLiteral struct {
	BooleanLiteralID string      `json:"id" yaml:"id"`
	Kind             BooleanKind `json:"kind" yaml:"kind"` // R22
}

func (l *BooleanLiteral) ID() string { return l.BooleanLiteralID }

// VariableExpression reads a variable by name.
type VariableExpression struct {
	VariableExpressionID string `json:"id" yaml:"id"`
	Name                 string `json:"name" yaml:"name"`
}

func (v *VariableExpression) ID() string { return v.VariableExpressionID }
