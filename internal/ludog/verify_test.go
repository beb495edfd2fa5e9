package ludog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ossuary/internal/codec"
	"github.com/mesh-intelligence/ossuary/pkg/ids"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

func TestVerifyCleanStore(t *testing.T) {
	s := newTestStore(t)
	Demo(s)
	assert.NoError(t, s.Verify())
}

func TestVerifyReportsEveryDanglingKey(t *testing.T) {
	s := newTestStore(t)
	block := NewBlock(s)
	missingNext := ids.New()
	missingCall := ids.New()
	NewStatementByID(0, block.ID(), missingNext, StatementSubtype{Kind: StatementItem}, s)
	val := NewExpressionIntegerLiteral(NewIntegerLiteral(1, s), s)
	NewArgumentByID(0, missingCall, val.ID(), "", s)

	err := s.Verify()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDanglingReference)

	var refs []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var d *types.DanglingError
		require.True(t, errors.As(e, &d))
		refs = append(refs, d.Field+":"+d.Ref)
	}
	assert.ElementsMatch(t, []string{"R17:" + missingNext, "R28:" + missingCall}, refs)
}

func TestVerifyChecksSubtypeTags(t *testing.T) {
	s := newTestStore(t)
	s.InterExpression(&Expression{
		ExpressionID: ids.New(),
		Subtype:      ExpressionSubtype{Kind: ExpressionCall, ID: ids.New()},
	})
	s.InterExpression(&Expression{
		ExpressionID: ids.New(),
		Subtype:      ExpressionSubtype{Kind: "lambda", ID: ids.New()},
	})
	s.InterOperator(&Operator{
		OperatorID: ids.New(),
		LHSID:      ids.New(),
		Subtype:    OperatorSubtype{Kind: OperatorNegation},
	})

	err := s.Verify()
	require.Error(t, err)
	errs := err.(interface{ Unwrap() []error }).Unwrap()
	assert.Len(t, errs, 3)
}

func TestVerifyRejectsMalformedTags(t *testing.T) {
	s := newTestStore(t)
	block := NewBlock(s)
	lhs := NewExpressionIntegerLiteral(NewIntegerLiteral(1, s), s)

	bogus := NewStatementByID(0, block.ID(), "", StatementSubtype{Kind: "bogus"}, s)
	stray := NewStatementByID(1, block.ID(), "", StatementSubtype{Kind: StatementItem, ID: ids.New()}, s)
	op := NewOperatorNegation(lhs, s)
	op.Subtype = OperatorSubtype{Kind: "modulo"}
	s.InterOperator(op)
	neg := NewOperatorNegation(lhs, s)
	neg.Subtype.ID = ids.New()
	s.InterOperator(neg)

	err := s.Verify()
	require.Error(t, err)
	var flagged []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var d *types.DanglingError
		require.ErrorAs(t, e, &d)
		flagged = append(flagged, d.ID)
	}
	assert.ElementsMatch(t, []string{bogus.ID(), stray.ID(), op.ID(), neg.ID()}, flagged)
}

func TestFromDocumentRejectsUnknownStatementKind(t *testing.T) {
	s := newTestStore(t)
	NewStatementByID(0, NewBlock(s).ID(), "", StatementSubtype{Kind: "bogus"}, s)

	doc, err := s.Document(context.Background(), codec.JSON)
	require.NoError(t, err)
	_, err = FromDocument(doc)
	assert.ErrorIs(t, err, types.ErrDanglingReference)
}

func TestVerifyReportsEmptyRequiredKey(t *testing.T) {
	s := newTestStore(t)
	NewExpressionStatementByID("", s)

	var d *types.DanglingError
	require.ErrorAs(t, s.Verify(), &d)
	assert.Equal(t, "R31", d.Field)
}
