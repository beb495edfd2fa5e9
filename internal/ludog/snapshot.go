package ludog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/ossuary/internal/codec"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Snapshot is the whole contents of a Store as one value, one field per
// entity type, each in insertion order.
type Snapshot struct {
	Blocks               []*Block               `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Statements           []*Statement           `json:"statements,omitempty" yaml:"statements,omitempty"`
	ExpressionStatements []*ExpressionStatement `json:"expression_statements,omitempty" yaml:"expression_statements,omitempty"`
	LetStatements        []*LetStatement        `json:"let_statements,omitempty" yaml:"let_statements,omitempty"`
	LocalVariables       []*LocalVariable       `json:"local_variables,omitempty" yaml:"local_variables,omitempty"`
	Expressions          []*Expression          `json:"expressions,omitempty" yaml:"expressions,omitempty"`
	Calls                []*Call                `json:"calls,omitempty" yaml:"calls,omitempty"`
	Arguments            []*Argument            `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Operators            []*Operator            `json:"operators,omitempty" yaml:"operators,omitempty"`
	Binaries             []*Binary              `json:"binaries,omitempty" yaml:"binaries,omitempty"`
	IntegerLiterals      []*IntegerLiteral      `json:"integer_literals,omitempty" yaml:"integer_literals,omitempty"`
	BooleanLiterals      []*BooleanLiteral      `json:"boolean_literals,omitempty" yaml:"boolean_literals,omitempty"`
	VariableExpressions  []*VariableExpression  `json:"variable_expressions,omitempty" yaml:"variable_expressions,omitempty"`
}

// Snapshot copies the contents of s. Records are shared, not cloned.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Blocks:               s.blocks.Values(),
		Statements:           s.statements.Values(),
		ExpressionStatements: s.expressionStatements.Values(),
		LetStatements:        s.letStatements.Values(),
		LocalVariables:       s.localVariables.Values(),
		Expressions:          s.expressions.Values(),
		Calls:                s.calls.Values(),
		Arguments:            s.arguments.Values(),
		Operators:            s.operators.Values(),
		Binaries:             s.binaries.Values(),
		IntegerLiterals:      s.integerLiterals.Values(),
		BooleanLiterals:      s.booleanLiterals.Values(),
		VariableExpressions:  s.variableExpressions.Values(),
	}
}

// interAll registers rs with inter, stopping at the first null or id-less
// record. It does nothing once *errp is set.
func interAll[E any, P interface {
	*E
	types.Entity
}](errp *error, name string, rs []P, inter func(P)) {
	if *errp != nil {
		return
	}
	for i, r := range rs {
		if (*E)(r) == nil {
			*errp = fmt.Errorf("%w: %s record %d is null", types.ErrInvalidData, name, i)
			return
		}
		if r.ID() == "" {
			*errp = fmt.Errorf("%w: %s record %d has no id", types.ErrInvalidData, name, i)
			return
		}
		inter(r)
	}
}

// FromSnapshot builds a Store holding the records of snap and verifies it.
// On a verification failure the store is returned along with the error so
// callers may inspect it. A null or id-less record fails with
// types.ErrInvalidData.
func FromSnapshot(snap Snapshot, opts ...Option) (*Store, error) {
	s, err := NewStore(opts...)
	if err != nil {
		return nil, err
	}
	interAll(&err, EntityBlock, snap.Blocks, s.InterBlock)
	interAll(&err, EntityStatement, snap.Statements, s.InterStatement)
	interAll(&err, EntityExpressionStatement, snap.ExpressionStatements, s.InterExpressionStatement)
	interAll(&err, EntityLetStatement, snap.LetStatements, s.InterLetStatement)
	interAll(&err, EntityLocalVariable, snap.LocalVariables, s.InterLocalVariable)
	interAll(&err, EntityExpression, snap.Expressions, s.InterExpression)
	interAll(&err, EntityCall, snap.Calls, s.InterCall)
	interAll(&err, EntityArgument, snap.Arguments, s.InterArgument)
	interAll(&err, EntityOperator, snap.Operators, s.InterOperator)
	interAll(&err, EntityBinary, snap.Binaries, s.InterBinary)
	interAll(&err, EntityIntegerLiteral, snap.IntegerLiterals, s.InterIntegerLiteral)
	interAll(&err, EntityBooleanLiteral, snap.BooleanLiterals, s.InterBooleanLiteral)
	interAll(&err, EntityVariableExpression, snap.VariableExpressions, s.InterVariableExpression)
	if err != nil {
		return nil, err
	}
	if err := s.Verify(); err != nil {
		return s, fmt.Errorf("verifying snapshot: %w", err)
	}
	return s, nil
}

// Document encodes s with c, one section per entity type in catalog order.
// Sections are encoded concurrently.
func (s *Store) Document(ctx context.Context, c codec.Codec) (types.Document, error) {
	sections := make([]types.Section, len(catalog))
	g, ctx := errgroup.WithContext(ctx)
	for i, k := range catalog {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := k.encode(s, c)
			if err != nil {
				return err
			}
			sections[i] = types.Section{Name: k.Collection, Records: recs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Document{}, err
	}
	return types.Document{Codec: c.Name(), Sections: sections}, nil
}

// FromDocument decodes doc into a new Store and verifies it. Sections may
// appear in any order; an unknown section name is an error.
func FromDocument(doc types.Document, opts ...Option) (*Store, error) {
	c, err := codec.ByName(doc.Codec)
	if err != nil {
		return nil, err
	}
	s, err := NewStore(opts...)
	if err != nil {
		return nil, err
	}
	for _, sec := range doc.Sections {
		k, err := LookupKind(sec.Name)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.Name, err)
		}
		if err := k.decode(s, c, sec.Records); err != nil {
			return nil, err
		}
	}
	if err := s.Verify(); err != nil {
		return s, fmt.Errorf("verifying document: %w", err)
	}
	return s, nil
}
