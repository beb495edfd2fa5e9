package ludog

import (
	"fmt"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Forward required navigators panic with a *types.NotFoundError when the key
// dangles. Forward optional navigators return nil when the key is unset.
// Backward navigators never panic.

func first[T any](rs []T) T {
	if len(rs) == 0 {
		var zero T
		return zero
	}
	return rs[0]
}

// mustSuper panics when a subtype record has no supertype record naming it.
func mustSuper[T any](rs []T, entity, id string) T {
	if len(rs) == 0 {
		panic(&types.NotFoundError{Entity: entity, ID: "subtype " + id})
	}
	return rs[0]
}

// Block

// R18Statement returns the statements of b in insertion order.
func (b *Block) R18Statement(s *Store) []*Statement {
	return s.stmtsByBlock.Lookup(b.BlockID)
}

// Statements returns the statements of b in R17 order.
func (b *Block) Statements(s *Store) []*Statement {
	return chain(b.R18Statement(s),
		func(st *Statement) *Statement { return st.R17CStatement(s) },
		func(st *Statement) *Statement { return st.R17Statement(s) })
}

// R15Expression returns the Expression wrapping b.
func (b *Block) R15Expression(s *Store) *Expression {
	return mustSuper(s.exprsBySubtype.Lookup(string(ExpressionBlock)+"/"+b.BlockID), EntityExpression, b.BlockID)
}

// Statement

// R18Block returns the block holding st.
func (st *Statement) R18Block(s *Store) *Block {
	return s.MustBlock(st.BlockID)
}

// R17Statement returns the statement following st, or nil.
func (st *Statement) R17Statement(s *Store) *Statement {
	if st.NextID == "" {
		return nil
	}
	return s.MustStatement(st.NextID)
}

// R17CStatement returns the statement preceding st, or nil.
func (st *Statement) R17CStatement(s *Store) *Statement {
	return first(s.stmtsByNext.Lookup(st.StatementID))
}

// R16Subtype resolves the R16 tag of st.
func (st *Statement) R16Subtype(s *Store) StatementVariant {
	switch st.Subtype.Kind {
	case StatementExpressionStatement:
		return s.MustExpressionStatement(st.Subtype.ID)
	case StatementLetStatement:
		return s.MustLetStatement(st.Subtype.ID)
	case StatementItem:
		return Item{}
	default:
		panic(fmt.Sprintf("statement %s: unknown subtype %q", st.StatementID, st.Subtype.Kind))
	}
}

// ExpressionStatement

// R31Expression returns the expression evaluated by es.
func (es *ExpressionStatement) R31Expression(s *Store) *Expression {
	return s.MustExpression(es.ExpressionID)
}

// R16Statement returns the Statement wrapping es.
func (es *ExpressionStatement) R16Statement(s *Store) *Statement {
	key := string(StatementExpressionStatement) + "/" + es.ExpressionStatementID
	return mustSuper(s.stmtsBySubtype.Lookup(key), EntityStatement, es.ExpressionStatementID)
}

// LetStatement

// R20Expression returns the bound expression.
func (l *LetStatement) R20Expression(s *Store) *Expression {
	return s.MustExpression(l.ExpressionID)
}

// R21LocalVariable returns the bound variable.
func (l *LetStatement) R21LocalVariable(s *Store) *LocalVariable {
	return s.MustLocalVariable(l.VariableID)
}

// R16Statement returns the Statement wrapping l.
func (l *LetStatement) R16Statement(s *Store) *Statement {
	key := string(StatementLetStatement) + "/" + l.LetStatementID
	return mustSuper(s.stmtsBySubtype.Lookup(key), EntityStatement, l.LetStatementID)
}

// LocalVariable

// R21LetStatement returns the let introducing v, or nil.
func (v *LocalVariable) R21LetStatement(s *Store) *LetStatement {
	return first(s.letsByVariable.Lookup(v.LocalVariableID))
}

// Expression

// R15Subtype resolves the R15 tag of e.
func (e *Expression) R15Subtype(s *Store) ExpressionVariant {
	id := e.Subtype.ID
	switch e.Subtype.Kind {
	case ExpressionBlock:
		return s.MustBlock(id)
	case ExpressionCall:
		return s.MustCall(id)
	case ExpressionOperator:
		return s.MustOperator(id)
	case ExpressionIntegerLiteral:
		return s.MustIntegerLiteral(id)
	case ExpressionBooleanLiteral:
		return s.MustBooleanLiteral(id)
	case ExpressionVariableExpression:
		return s.MustVariableExpression(id)
	default:
		panic(fmt.Sprintf("expression %s: unknown subtype %q", e.ExpressionID, e.Subtype.Kind))
	}
}

// R31ExpressionStatement returns the expression statements evaluating e.
func (e *Expression) R31ExpressionStatement(s *Store) []*ExpressionStatement {
	return s.exprStmtsByExpr.Lookup(e.ExpressionID)
}

// R20LetStatement returns the lets binding e.
func (e *Expression) R20LetStatement(s *Store) []*LetStatement {
	return s.letsByExpr.Lookup(e.ExpressionID)
}

// R29Call returns the calls whose callee is e.
func (e *Expression) R29Call(s *Store) []*Call {
	return s.callsByCallee.Lookup(e.ExpressionID)
}

// R37Argument returns the arguments whose value is e.
func (e *Expression) R37Argument(s *Store) []*Argument {
	return s.argsByExpr.Lookup(e.ExpressionID)
}

// R50Operator returns the operators with e on the left.
func (e *Expression) R50Operator(s *Store) []*Operator {
	return s.opsByLHS.Lookup(e.ExpressionID)
}

// R51Operator returns the operators with e on the right.
func (e *Expression) R51Operator(s *Store) []*Operator {
	return s.opsByRHS.Lookup(e.ExpressionID)
}

// Call

// R29Expression returns the callee, or nil.
func (c *Call) R29Expression(s *Store) *Expression {
	if c.CalleeID == "" {
		return nil
	}
	return s.MustExpression(c.CalleeID)
}

// R28Argument returns the arguments of c in insertion order. Use Arguments
// for source order.
func (c *Call) R28Argument(s *Store) []*Argument {
	return s.argsByCall.Lookup(c.CallID)
}

// R15Expression returns the Expression wrapping c.
func (c *Call) R15Expression(s *Store) *Expression {
	return mustSuper(s.exprsBySubtype.Lookup(string(ExpressionCall)+"/"+c.CallID), EntityExpression, c.CallID)
}

// Arguments returns the arguments of c following the R27 list from its
// head. Arguments unreachable from the head are appended in insertion order.
func (c *Call) Arguments(s *Store) []*Argument {
	return chain(c.R28Argument(s),
		func(a *Argument) *Argument { return a.R27CArgument(s) },
		func(a *Argument) *Argument { return a.R27Argument(s) })
}

// chain orders members of a singly linked list from its head. Members the
// walk does not reach, including those of a cycle, keep insertion order
// after the reachable ones.
func chain[T interface {
	comparable
	ID() string
}](all []T, prev, next func(T) T) []T {
	if len(all) == 0 {
		return nil
	}
	var zero, head T
	for _, r := range all {
		if prev(r) == zero {
			head = r
			break
		}
	}
	seen := make(map[string]bool, len(all))
	out := make([]T, 0, len(all))
	for r := head; r != zero && !seen[r.ID()]; r = next(r) {
		seen[r.ID()] = true
		out = append(out, r)
	}
	for _, r := range all {
		if !seen[r.ID()] {
			out = append(out, r)
		}
	}
	return out
}

// Argument

// R28Call returns the call a belongs to.
func (a *Argument) R28Call(s *Store) *Call {
	return s.MustCall(a.CallID)
}

// R37Expression returns the value of a.
func (a *Argument) R37Expression(s *Store) *Expression {
	return s.MustExpression(a.ExpressionID)
}

// R27Argument returns the following argument, or nil.
func (a *Argument) R27Argument(s *Store) *Argument {
	if a.NextID == "" {
		return nil
	}
	return s.MustArgument(a.NextID)
}

// R27CArgument returns the preceding argument, or nil.
func (a *Argument) R27CArgument(s *Store) *Argument {
	return first(s.argsByNext.Lookup(a.ArgumentID))
}

// Operator

// R50Expression returns the left hand side.
func (o *Operator) R50Expression(s *Store) *Expression {
	return s.MustExpression(o.LHSID)
}

// R51Expression returns the right hand side, or nil for a unary operator.
func (o *Operator) R51Expression(s *Store) *Expression {
	if o.RHSID == "" {
		return nil
	}
	return s.MustExpression(o.RHSID)
}

// R47Subtype resolves the R47 tag of o.
func (o *Operator) R47Subtype(s *Store) OperatorVariant {
	switch o.Subtype.Kind {
	case OperatorBinary:
		return s.MustBinary(o.Subtype.ID)
	case OperatorNegation:
		return Negation{}
	default:
		panic(fmt.Sprintf("operator %s: unknown subtype %q", o.OperatorID, o.Subtype.Kind))
	}
}

// R15Expression returns the Expression wrapping o.
func (o *Operator) R15Expression(s *Store) *Expression {
	return mustSuper(s.exprsBySubtype.Lookup(string(ExpressionOperator)+"/"+o.OperatorID), EntityExpression, o.OperatorID)
}

// Binary

// R47Operator returns every operator applying b. Binary records are shared,
// so there may be many.
func (b *Binary) R47Operator(s *Store) []*Operator {
	return s.opsBySubtype.Lookup(string(OperatorBinary) + "/" + b.BinaryID)
}

// IntegerLiteral

// R15Expression returns the Expression wrapping l.
func (l *IntegerLiteral) R15Expression(s *Store) *Expression {
	key := string(ExpressionIntegerLiteral) + "/" + l.IntegerLiteralID
	return mustSuper(s.exprsBySubtype.Lookup(key), EntityExpression, l.IntegerLiteralID)
}

// BooleanLiteral

// R15Expression returns the first Expression wrapping l. Boolean literals
// are shared, so later expressions may wrap it too.
func (l *BooleanLiteral) R15Expression(s *Store) *Expression {
	key := string(ExpressionBooleanLiteral) + "/" + l.BooleanLiteralID
	return mustSuper(s.exprsBySubtype.Lookup(key), EntityExpression, l.BooleanLiteralID)
}

// VariableExpression

// R15Expression returns the Expression wrapping v.
func (v *VariableExpression) R15Expression(s *Store) *Expression {
	key := string(ExpressionVariableExpression) + "/" + v.VariableExpressionID
	return mustSuper(s.exprsBySubtype.Lookup(key), EntityExpression, v.VariableExpressionID)
}
