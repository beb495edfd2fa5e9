package ludog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ossuary/pkg/ids"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

func TestForwardRequiredReturnsTarget(t *testing.T) {
	s := newTestStore(t)
	block := NewBlock(s)
	st := NewStatementItem(0, block, nil, s)

	assert.Same(t, block, st.R18Block(s))
}

func TestForwardRequiredPanicsOnDanglingKey(t *testing.T) {
	s := newTestStore(t)
	missing := ids.New()
	st := NewStatementByID(0, missing, "", StatementSubtype{Kind: StatementItem}, s)

	defer func() {
		p := recover()
		require.NotNil(t, p, "expected panic")
		err, ok := p.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, types.ErrNotFound)
		var nf *types.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, EntityBlock, nf.Entity)
		assert.Equal(t, missing, nf.ID)
	}()
	st.R18Block(s)
}

func TestForwardOptional(t *testing.T) {
	s := newTestStore(t)
	block := NewBlock(s)
	last := NewStatementItem(1, block, nil, s)
	head := NewStatementItem(0, block, last, s)

	assert.Nil(t, last.R17Statement(s))
	assert.Same(t, last, head.R17Statement(s))

	call := NewCall(false, nil, s)
	assert.Nil(t, call.R29Expression(s))

	neg := NewOperatorNegation(NewExpressionIntegerLiteral(NewIntegerLiteral(1, s), s), s)
	assert.Nil(t, neg.R51Expression(s))
	assert.Equal(t, Negation{}, neg.R47Subtype(s))

	dangling := NewStatementByID(2, block.ID(), ids.New(), StatementSubtype{Kind: StatementItem}, s)
	assert.Panics(t, func() { dangling.R17Statement(s) })
}

func TestBackwardOneToMany(t *testing.T) {
	s := newTestStore(t)
	parent := NewBlock(s)
	other := NewBlock(s)

	const n = 5
	var want []*Statement
	for i := range n {
		want = append(want, NewStatementItem(int64(i), parent, nil, s))
	}
	NewStatementItem(0, other, nil, s)

	got := parent.R18Statement(s)
	assert.Equal(t, want, got)
	assert.Len(t, other.R18Statement(s), 1)
	assert.Empty(t, NewBlock(s).R18Statement(s))
}

func TestBackwardConditional(t *testing.T) {
	s := newTestStore(t)
	block := NewBlock(s)
	last := NewStatementItem(1, block, nil, s)
	head := NewStatementItem(0, block, last, s)

	assert.Same(t, head, last.R17CStatement(s))
	assert.Nil(t, head.R17CStatement(s))

	x := NewLocalVariable("x", s)
	assert.Nil(t, x.R21LetStatement(s))
	let := NewLetStatement(NewExpressionIntegerLiteral(NewIntegerLiteral(1, s), s), x, s)
	assert.Same(t, let, x.R21LetStatement(s))
}

func TestBackwardFollowsReplacement(t *testing.T) {
	s := newTestStore(t)
	a := NewBlock(s)
	b := NewBlock(s)
	st := NewStatementItem(0, a, nil, s)

	moved := *st
	moved.BlockID = b.ID()
	s.InterStatement(&moved)

	assert.Empty(t, a.R18Statement(s))
	require.Len(t, b.R18Statement(s), 1)
	assert.Equal(t, b.ID(), b.R18Statement(s)[0].BlockID)
}

func TestBackwardFollowsInPlaceUpdate(t *testing.T) {
	s := newTestStore(t)
	a := NewBlock(s)
	b := NewBlock(s)
	NewStatementItem(0, a, nil, s)
	kept := NewStatementItem(1, a, nil, s)
	st := NewStatementItem(2, a, nil, s)

	updated := s.MustStatement(st.ID())
	updated.BlockID = b.ID()
	s.InterStatement(updated)

	for _, child := range a.R18Statement(s) {
		assert.Equal(t, a.ID(), child.BlockID)
	}
	assert.Len(t, a.R18Statement(s), 2)
	assert.Contains(t, a.R18Statement(s), kept)
	require.Len(t, b.R18Statement(s), 1)
	assert.Same(t, st, b.R18Statement(s)[0])
}

func TestSubtypeNavigation(t *testing.T) {
	s := newTestStore(t)
	call := NewCall(true, nil, s)
	expr := NewExpressionCall(call, s)

	assert.Same(t, expr, call.R15Expression(s))
	assert.Same(t, call, expr.R15Subtype(s))

	plus := NewBinary(Addition, s)
	lhs := NewExpressionIntegerLiteral(NewIntegerLiteral(1, s), s)
	rhs := NewExpressionIntegerLiteral(NewIntegerLiteral(2, s), s)
	op1 := NewOperatorBinary(lhs, rhs, plus, s)
	op2 := NewOperatorBinary(rhs, lhs, plus, s)

	assert.Equal(t, []*Operator{op1, op2}, plus.R47Operator(s))
	assert.Same(t, plus, op1.R47Subtype(s))
	assert.Equal(t, []*Operator{op1}, lhs.R50Operator(s))
	assert.Equal(t, []*Operator{op2}, lhs.R51Operator(s))

	orphan := NewCall(false, nil, s)
	assert.Panics(t, func() { orphan.R15Expression(s) })
}

func TestStatementSubtypes(t *testing.T) {
	s := newTestStore(t)
	block := NewBlock(s)
	val := NewExpressionIntegerLiteral(NewIntegerLiteral(1, s), s)
	es := NewExpressionStatement(val, s)
	let := NewLetStatement(val, NewLocalVariable("v", s), s)

	st1 := NewStatementExpressionStatement(0, block, nil, es, s)
	st2 := NewStatementLetStatement(1, block, nil, let, s)
	st3 := NewStatementItem(2, block, nil, s)

	assert.Same(t, es, st1.R16Subtype(s))
	assert.Same(t, let, st2.R16Subtype(s))
	assert.Equal(t, Item{}, st3.R16Subtype(s))
	assert.Same(t, st1, es.R16Statement(s))
	assert.Same(t, st2, let.R16Statement(s))
	assert.Equal(t, []*ExpressionStatement{es}, val.R31ExpressionStatement(s))
	assert.Equal(t, []*LetStatement{let}, val.R20LetStatement(s))
}

func TestDemoProgram(t *testing.T) {
	s := newTestStore(t)
	block := Demo(s)
	require.NoError(t, s.Verify())

	stmts := block.Statements(s)
	require.Len(t, stmts, 2)
	assert.Equal(t, int64(0), stmts[0].Index)

	let, ok := stmts[0].R16Subtype(s).(*LetStatement)
	require.True(t, ok)
	assert.Equal(t, "x", let.R21LocalVariable(s).Name)

	op, ok := let.R20Expression(s).R15Subtype(s).(*Operator)
	require.True(t, ok)
	bin, ok := op.R47Subtype(s).(*Binary)
	require.True(t, ok)
	assert.Equal(t, Addition, bin.Kind)
	assert.Equal(t, int64(2), op.R51Expression(s).R15Subtype(s).(*IntegerLiteral).Value)

	es := stmts[1].R16Subtype(s).(*ExpressionStatement)
	call := es.R31Expression(s).R15Subtype(s).(*Call)
	assert.Equal(t, "add", call.R29Expression(s).R15Subtype(s).(*VariableExpression).Name)

	args := call.Arguments(s)
	require.Len(t, args, 2)
	assert.Equal(t, int64(0), args[0].Position)
	assert.Equal(t, "x", args[0].R37Expression(s).R15Subtype(s).(*VariableExpression).Name)
	assert.True(t, args[1].R37Expression(s).R15Subtype(s).(*BooleanLiteral).Kind.Bool())
	assert.Same(t, call, args[1].R28Call(s))
}
