package ludog

import (
	"errors"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Verify checks every foreign key and every subtype tag in s. It
// returns nil when all of them resolve, or the joined *types.DanglingError of
// each one that does not.
func (s *Store) Verify() error {
	v := verifier{s: s}

	for id, st := range s.IterStatement() {
		v.check(EntityStatement, id, "R18", EntityBlock, st.BlockID, s.hasBlock)
		v.check(EntityStatement, id, "R17", EntityStatement, st.NextID, s.hasStatement)
		switch st.Subtype.Kind {
		case StatementExpressionStatement:
			v.check(EntityStatement, id, "R16", EntityExpressionStatement, st.Subtype.ID, s.hasExpressionStatement)
		case StatementLetStatement:
			v.check(EntityStatement, id, "R16", EntityLetStatement, st.Subtype.ID, s.hasLetStatement)
		case StatementItem:
			v.unit(EntityStatement, id, "R16", string(st.Subtype.Kind), st.Subtype.ID)
		default:
			v.badTag(EntityStatement, id, "R16", string(st.Subtype.Kind), st.Subtype.ID)
		}
	}
	for id, es := range s.IterExpressionStatement() {
		v.check(EntityExpressionStatement, id, "R31", EntityExpression, es.ExpressionID, s.hasExpression)
	}
	for id, l := range s.IterLetStatement() {
		v.check(EntityLetStatement, id, "R20", EntityExpression, l.ExpressionID, s.hasExpression)
		v.check(EntityLetStatement, id, "R21", EntityLocalVariable, l.VariableID, s.hasLocalVariable)
	}
	for id, e := range s.IterExpression() {
		target, has := s.expressionTarget(e.Subtype.Kind)
		if has == nil {
			v.badTag(EntityExpression, id, "R15", string(e.Subtype.Kind), e.Subtype.ID)
			continue
		}
		v.check(EntityExpression, id, "R15", target, e.Subtype.ID, has)
	}
	for id, c := range s.IterCall() {
		v.check(EntityCall, id, "R29", EntityExpression, c.CalleeID, s.hasExpression)
	}
	for id, a := range s.IterArgument() {
		v.check(EntityArgument, id, "R28", EntityCall, a.CallID, s.hasCall)
		v.check(EntityArgument, id, "R37", EntityExpression, a.ExpressionID, s.hasExpression)
		v.check(EntityArgument, id, "R27", EntityArgument, a.NextID, s.hasArgument)
	}
	for id, o := range s.IterOperator() {
		v.check(EntityOperator, id, "R50", EntityExpression, o.LHSID, s.hasExpression)
		v.check(EntityOperator, id, "R51", EntityExpression, o.RHSID, s.hasExpression)
		switch o.Subtype.Kind {
		case OperatorBinary:
			v.check(EntityOperator, id, "R47", EntityBinary, o.Subtype.ID, s.hasBinary)
		case OperatorNegation:
			v.unit(EntityOperator, id, "R47", string(o.Subtype.Kind), o.Subtype.ID)
		default:
			v.badTag(EntityOperator, id, "R47", string(o.Subtype.Kind), o.Subtype.ID)
		}
	}
	return errors.Join(v.errs...)
}

type verifier struct {
	s    *Store
	errs []error
}

// check records a dangling reference. An empty ref is an unset optional
// relationship; required ones are never empty when built by constructors,
// so an empty required key is reported too.
func (v *verifier) check(entity, id, field, target, ref string, has func(string) bool) {
	if ref == "" {
		if optional[field] {
			return
		}
	} else if has(ref) {
		return
	}
	v.errs = append(v.errs, &types.DanglingError{Entity: entity, ID: id, Field: field, Target: target, Ref: ref})
}

// badTag records a subtype tag whose kind names no subtype.
func (v *verifier) badTag(entity, id, field, kind, ref string) {
	v.errs = append(v.errs, &types.DanglingError{Entity: entity, ID: id, Field: field, Target: kind, Ref: ref})
}

// unit records a unit subtype tag that carries an identifier.
func (v *verifier) unit(entity, id, field, kind, ref string) {
	if ref != "" {
		v.badTag(entity, id, field, kind, ref)
	}
}

var optional = map[string]bool{"R17": true, "R27": true, "R29": true, "R51": true}

func (s *Store) expressionTarget(kind ExpressionKind) (string, func(string) bool) {
	switch kind {
	case ExpressionBlock:
		return EntityBlock, s.hasBlock
	case ExpressionCall:
		return EntityCall, s.hasCall
	case ExpressionOperator:
		return EntityOperator, s.hasOperator
	case ExpressionIntegerLiteral:
		return EntityIntegerLiteral, s.hasIntegerLiteral
	case ExpressionBooleanLiteral:
		return EntityBooleanLiteral, s.hasBooleanLiteral
	case ExpressionVariableExpression:
		return EntityVariableExpression, s.hasVariableExpression
	default:
		return "", nil
	}
}

func (s *Store) hasBlock(id string) bool {
	_, ok := s.blocks.Exhume(id)
	return ok
}

func (s *Store) hasStatement(id string) bool {
	_, ok := s.statements.Exhume(id)
	return ok
}

func (s *Store) hasExpressionStatement(id string) bool {
	_, ok := s.expressionStatements.Exhume(id)
	return ok
}

func (s *Store) hasLetStatement(id string) bool {
	_, ok := s.letStatements.Exhume(id)
	return ok
}

func (s *Store) hasLocalVariable(id string) bool {
	_, ok := s.localVariables.Exhume(id)
	return ok
}

func (s *Store) hasExpression(id string) bool {
	_, ok := s.expressions.Exhume(id)
	return ok
}

func (s *Store) hasCall(id string) bool {
	_, ok := s.calls.Exhume(id)
	return ok
}

func (s *Store) hasArgument(id string) bool {
	_, ok := s.arguments.Exhume(id)
	return ok
}

func (s *Store) hasOperator(id string) bool {
	_, ok := s.operators.Exhume(id)
	return ok
}

func (s *Store) hasBinary(id string) bool {
	_, ok := s.binaries.Exhume(id)
	return ok
}

func (s *Store) hasIntegerLiteral(id string) bool {
	_, ok := s.integerLiterals.Exhume(id)
	return ok
}

func (s *Store) hasBooleanLiteral(id string) bool {
	_, ok := s.booleanLiterals.Exhume(id)
	return ok
}

func (s *Store) hasVariableExpression(id string) bool {
	_, ok := s.variableExpressions.Exhume(id)
	return ok
}
