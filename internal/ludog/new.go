package ludog

import "github.com/mesh-intelligence/ossuary/pkg/ids"

// Constructors build a record, mint its identifier under the store's policy
// and inter it. Related records are passed by pointer; a nil pointer leaves
// an optional relationship unset. The ByID forms take bare identifiers and
// do not check that they exist.

func idOf[T interface{ ID() string }](r T, present bool) string {
	if !present {
		return ""
	}
	return r.ID()
}

// NewBlock creates a Block.
func NewBlock(s *Store) *Block {
	b := &Block{BlockID: s.makeID(EntityBlock)}
	s.InterBlock(b)
	return b
}

// NewStatementExpressionStatement creates a Statement wrapping sub at index
// within block. next is the following statement, or nil.
func NewStatementExpressionStatement(index int64, block *Block, next *Statement, sub *ExpressionStatement, s *Store) *Statement {
	return newStatement(index, block.ID(), idOf(next, next != nil),
		StatementSubtype{Kind: StatementExpressionStatement, ID: sub.ID()}, s)
}

// NewStatementLetStatement creates a Statement wrapping sub.
func NewStatementLetStatement(index int64, block *Block, next *Statement, sub *LetStatement, s *Store) *Statement {
	return newStatement(index, block.ID(), idOf(next, next != nil),
		StatementSubtype{Kind: StatementLetStatement, ID: sub.ID()}, s)
}

// NewStatementItem creates an Item Statement.
func NewStatementItem(index int64, block *Block, next *Statement, s *Store) *Statement {
	return newStatement(index, block.ID(), idOf(next, next != nil), StatementSubtype{Kind: StatementItem}, s)
}

// NewStatementByID creates a Statement from bare identifiers. nextID may be
// empty.
func NewStatementByID(index int64, blockID, nextID string, sub StatementSubtype, s *Store) *Statement {
	return newStatement(index, blockID, nextID, sub, s)
}

func newStatement(index int64, blockID, nextID string, sub StatementSubtype, s *Store) *Statement {
	st := &Statement{
		StatementID: s.makeID(EntityStatement, index, blockID, nextID, sub.Kind, sub.ID),
		Index:       index,
		BlockID:     blockID,
		NextID:      nextID,
		Subtype:     sub,
	}
	s.InterStatement(st)
	return st
}

// NewExpressionStatement creates an ExpressionStatement evaluating expr.
func NewExpressionStatement(expr *Expression, s *Store) *ExpressionStatement {
	return NewExpressionStatementByID(expr.ID(), s)
}

// NewExpressionStatementByID creates an ExpressionStatement from a bare
// expression identifier.
func NewExpressionStatementByID(exprID string, s *Store) *ExpressionStatement {
	es := &ExpressionStatement{
		ExpressionStatementID: s.makeID(EntityExpressionStatement, exprID),
		ExpressionID:          exprID,
	}
	s.InterExpressionStatement(es)
	return es
}

// NewLetStatement creates a LetStatement binding expr to v.
func NewLetStatement(expr *Expression, v *LocalVariable, s *Store) *LetStatement {
	return NewLetStatementByID(expr.ID(), v.ID(), s)
}

// NewLetStatementByID creates a LetStatement from bare identifiers.
func NewLetStatementByID(exprID, variableID string, s *Store) *LetStatement {
	l := &LetStatement{
		LetStatementID: s.makeID(EntityLetStatement, exprID, variableID),
		ExpressionID:   exprID,
		VariableID:     variableID,
	}
	s.InterLetStatement(l)
	return l
}

// NewLocalVariable creates a LocalVariable.
func NewLocalVariable(name string, s *Store) *LocalVariable {
	v := &LocalVariable{LocalVariableID: s.makeID(EntityLocalVariable, name), Name: name}
	s.InterLocalVariable(v)
	return v
}

func newExpression(kind ExpressionKind, subID string, s *Store) *Expression {
	e := &Expression{
		ExpressionID: s.makeID(EntityExpression, kind, subID),
		Subtype:      ExpressionSubtype{Kind: kind, ID: subID},
	}
	s.InterExpression(e)
	return e
}

// NewExpressionBlock creates an Expression wrapping b.
func NewExpressionBlock(b *Block, s *Store) *Expression {
	return newExpression(ExpressionBlock, b.ID(), s)
}

// NewExpressionCall creates an Expression wrapping c.
func NewExpressionCall(c *Call, s *Store) *Expression {
	return newExpression(ExpressionCall, c.ID(), s)
}

// NewExpressionOperator creates an Expression wrapping o.
func NewExpressionOperator(o *Operator, s *Store) *Expression {
	return newExpression(ExpressionOperator, o.ID(), s)
}

// NewExpressionIntegerLiteral creates an Expression wrapping l.
func NewExpressionIntegerLiteral(l *IntegerLiteral, s *Store) *Expression {
	return newExpression(ExpressionIntegerLiteral, l.ID(), s)
}

// NewExpressionBooleanLiteral creates an Expression wrapping l.
func NewExpressionBooleanLiteral(l *BooleanLiteral, s *Store) *Expression {
	return newExpression(ExpressionBooleanLiteral, l.ID(), s)
}

// NewExpressionVariableExpression creates an Expression wrapping v.
func NewExpressionVariableExpression(v *VariableExpression, s *Store) *Expression {
	return newExpression(ExpressionVariableExpression, v.ID(), s)
}

// NewCall creates a Call. callee may be nil.
func NewCall(argCheck bool, callee *Expression, s *Store) *Call {
	calleeID := idOf(callee, callee != nil)
	c := &Call{
		CallID:   s.makeID(EntityCall, argCheck, calleeID),
		ArgCheck: argCheck,
		CalleeID: calleeID,
	}
	s.InterCall(c)
	return c
}

// NewArgument creates the Argument at position of call. next may be nil.
func NewArgument(position int64, call *Call, expr *Expression, next *Argument, s *Store) *Argument {
	return NewArgumentByID(position, call.ID(), expr.ID(), idOf(next, next != nil), s)
}

// NewArgumentByID creates an Argument from bare identifiers. nextID may be
// empty.
func NewArgumentByID(position int64, callID, exprID, nextID string, s *Store) *Argument {
	a := &Argument{
		ArgumentID:   s.makeID(EntityArgument, position, callID, exprID, nextID),
		Position:     position,
		CallID:       callID,
		ExpressionID: exprID,
		NextID:       nextID,
	}
	s.InterArgument(a)
	return a
}

// NewOperatorBinary creates a binary Operator applying sub to lhs and rhs.
func NewOperatorBinary(lhs, rhs *Expression, sub *Binary, s *Store) *Operator {
	return newOperator(lhs.ID(), rhs.ID(), OperatorSubtype{Kind: OperatorBinary, ID: sub.ID()}, s)
}

// NewOperatorNegation creates a Negation of lhs.
func NewOperatorNegation(lhs *Expression, s *Store) *Operator {
	return newOperator(lhs.ID(), "", OperatorSubtype{Kind: OperatorNegation}, s)
}

func newOperator(lhsID, rhsID string, sub OperatorSubtype, s *Store) *Operator {
	o := &Operator{
		OperatorID: s.makeID(EntityOperator, lhsID, rhsID, sub.Kind, sub.ID),
		LHSID:      lhsID,
		RHSID:      rhsID,
		Subtype:    sub,
	}
	s.InterOperator(o)
	return o
}

// NewBinary returns the Binary of kind. It is idempotent: every call with
// the same kind yields the same identifier.
func NewBinary(kind BinaryKind, s *Store) *Binary {
	b := &Binary{BinaryID: ids.Derive(EntityBinary, kind), Kind: kind}
	s.InterBinary(b)
	return b
}

// NewIntegerLiteral creates an IntegerLiteral.
func NewIntegerLiteral(value int64, s *Store) *IntegerLiteral {
	l := &IntegerLiteral{IntegerLiteralID: s.makeID(EntityIntegerLiteral, value), Value: value}
	s.InterIntegerLiteral(l)
	return l
}

// NewBooleanLiteral returns the BooleanLiteral of value. Like NewBinary it is
// idempotent.
func NewBooleanLiteral(value bool, s *Store) *BooleanLiteral {
	kind := booleanKind(value)
	l := &BooleanLiteral{BooleanLiteralID: ids.Derive(EntityBooleanLiteral, kind), Kind: kind}
	s.InterBooleanLiteral(l)
	return l
}

// NewVariableExpression creates a VariableExpression reading name.
func NewVariableExpression(name string, s *Store) *VariableExpression {
	v := &VariableExpression{VariableExpressionID: s.makeID(EntityVariableExpression, name), Name: name}
	s.InterVariableExpression(v)
	return v
}
