package ludog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/mesh-intelligence/ossuary/internal/codec"
	"github.com/mesh-intelligence/ossuary/pkg/store"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Kind describes one entity type for callers that only know its name: the
// CLI, the document encoder and anything else working across types.
type Kind struct {
	Name       string // entity type name, e.g. "LetStatement"
	Collection string // plural snake case collection name, e.g. "let_statements"

	count  func(*Store) int
	list   func(*Store) []types.Entity
	exhume func(*Store, string) (types.Entity, bool)
	encode func(*Store, codec.Codec) ([]types.Record, error)
	decode func(*Store, codec.Codec, []types.Record) error
	navs   map[string]func(*Store, types.Entity) []types.Entity
}

type nav[P any] map[string]func(*Store, P) []types.Entity

func kindOf[E any, P interface {
	*E
	types.Entity
}](name string, coll func(*Store) *store.Collection[P], navs nav[P]) Kind {
	k := Kind{
		Name:       name,
		Collection: inflect.Pluralize(inflect.Underscore(name)),
		navs:       make(map[string]func(*Store, types.Entity) []types.Entity, len(navs)),
	}
	k.count = func(s *Store) int { return coll(s).Len() }
	k.list = func(s *Store) []types.Entity {
		recs := coll(s).Values()
		out := make([]types.Entity, len(recs))
		for i, r := range recs {
			out[i] = r
		}
		return out
	}
	k.exhume = func(s *Store, id string) (types.Entity, bool) {
		r, ok := coll(s).Exhume(id)
		if !ok {
			return nil, false
		}
		return r, true
	}
	k.encode = func(s *Store, c codec.Codec) ([]types.Record, error) {
		recs := coll(s).Values()
		out := make([]types.Record, 0, len(recs))
		for _, r := range recs {
			body, err := c.Marshal(r)
			if err != nil {
				return nil, fmt.Errorf("encoding %s %s: %w", name, r.ID(), err)
			}
			out = append(out, types.Record{ID: r.ID(), Body: body})
		}
		return out, nil
	}
	k.decode = func(s *Store, c codec.Codec, recs []types.Record) error {
		for _, rec := range recs {
			r := P(new(E))
			if err := c.Unmarshal(rec.Body, r); err != nil {
				return fmt.Errorf("%w: decoding %s %s: %v", types.ErrInvalidData, name, rec.ID, err)
			}
			if r.ID() == "" {
				return fmt.Errorf("%w: %s record %q has no id", types.ErrInvalidData, name, rec.ID)
			}
			if r.ID() != rec.ID {
				return fmt.Errorf("%w: %s record %q holds id %q", types.ErrInvalidData, name, rec.ID, r.ID())
			}
			coll(s).Inter(r)
		}
		return nil
	}
	for rel, fn := range navs {
		k.navs[rel] = func(s *Store, r types.Entity) []types.Entity { return fn(s, r.(P)) }
	}
	return k
}

func one[T interface {
	comparable
	types.Entity
}](r T) []types.Entity {
	var zero T
	if r == zero {
		return nil
	}
	return []types.Entity{r}
}

func many[T types.Entity](rs []T) []types.Entity {
	out := make([]types.Entity, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}

func variant(v any) []types.Entity {
	if e, ok := v.(types.Entity); ok {
		return []types.Entity{e}
	}
	return nil
}

// catalog lists every entity type in dependency-free display order. Document
// sections follow it.
var catalog = []Kind{
	kindOf(EntityBlock, func(s *Store) *store.Collection[*Block] { return s.blocks }, nav[*Block]{
		"R18Statement":  func(s *Store, r *Block) []types.Entity { return many(r.R18Statement(s)) },
		"R15Expression": func(s *Store, r *Block) []types.Entity { return one(r.R15Expression(s)) },
		"Statements":    func(s *Store, r *Block) []types.Entity { return many(r.Statements(s)) },
	}),
	kindOf(EntityStatement, func(s *Store) *store.Collection[*Statement] { return s.statements }, nav[*Statement]{
		"R18Block":      func(s *Store, r *Statement) []types.Entity { return one(r.R18Block(s)) },
		"R17Statement":  func(s *Store, r *Statement) []types.Entity { return one(r.R17Statement(s)) },
		"R17CStatement": func(s *Store, r *Statement) []types.Entity { return one(r.R17CStatement(s)) },
		"R16Subtype":    func(s *Store, r *Statement) []types.Entity { return variant(r.R16Subtype(s)) },
	}),
	kindOf(EntityExpressionStatement, func(s *Store) *store.Collection[*ExpressionStatement] { return s.expressionStatements }, nav[*ExpressionStatement]{
		"R31Expression": func(s *Store, r *ExpressionStatement) []types.Entity { return one(r.R31Expression(s)) },
		"R16Statement":  func(s *Store, r *ExpressionStatement) []types.Entity { return one(r.R16Statement(s)) },
	}),
	kindOf(EntityLetStatement, func(s *Store) *store.Collection[*LetStatement] { return s.letStatements }, nav[*LetStatement]{
		"R20Expression":    func(s *Store, r *LetStatement) []types.Entity { return one(r.R20Expression(s)) },
		"R21LocalVariable": func(s *Store, r *LetStatement) []types.Entity { return one(r.R21LocalVariable(s)) },
		"R16Statement":     func(s *Store, r *LetStatement) []types.Entity { return one(r.R16Statement(s)) },
	}),
	kindOf(EntityLocalVariable, func(s *Store) *store.Collection[*LocalVariable] { return s.localVariables }, nav[*LocalVariable]{
		"R21LetStatement": func(s *Store, r *LocalVariable) []types.Entity { return one(r.R21LetStatement(s)) },
	}),
	kindOf(EntityExpression, func(s *Store) *store.Collection[*Expression] { return s.expressions }, nav[*Expression]{
		"R15Subtype":             func(s *Store, r *Expression) []types.Entity { return variant(r.R15Subtype(s)) },
		"R31ExpressionStatement": func(s *Store, r *Expression) []types.Entity { return many(r.R31ExpressionStatement(s)) },
		"R20LetStatement":        func(s *Store, r *Expression) []types.Entity { return many(r.R20LetStatement(s)) },
		"R29Call":                func(s *Store, r *Expression) []types.Entity { return many(r.R29Call(s)) },
		"R37Argument":            func(s *Store, r *Expression) []types.Entity { return many(r.R37Argument(s)) },
		"R50Operator":            func(s *Store, r *Expression) []types.Entity { return many(r.R50Operator(s)) },
		"R51Operator":            func(s *Store, r *Expression) []types.Entity { return many(r.R51Operator(s)) },
	}),
	kindOf(EntityCall, func(s *Store) *store.Collection[*Call] { return s.calls }, nav[*Call]{
		"R29Expression": func(s *Store, r *Call) []types.Entity { return one(r.R29Expression(s)) },
		"R28Argument":   func(s *Store, r *Call) []types.Entity { return many(r.R28Argument(s)) },
		"R15Expression": func(s *Store, r *Call) []types.Entity { return one(r.R15Expression(s)) },
		"Arguments":     func(s *Store, r *Call) []types.Entity { return many(r.Arguments(s)) },
	}),
	kindOf(EntityArgument, func(s *Store) *store.Collection[*Argument] { return s.arguments }, nav[*Argument]{
		"R28Call":       func(s *Store, r *Argument) []types.Entity { return one(r.R28Call(s)) },
		"R37Expression": func(s *Store, r *Argument) []types.Entity { return one(r.R37Expression(s)) },
		"R27Argument":   func(s *Store, r *Argument) []types.Entity { return one(r.R27Argument(s)) },
		"R27CArgument":  func(s *Store, r *Argument) []types.Entity { return one(r.R27CArgument(s)) },
	}),
	kindOf(EntityOperator, func(s *Store) *store.Collection[*Operator] { return s.operators }, nav[*Operator]{
		"R50Expression": func(s *Store, r *Operator) []types.Entity { return one(r.R50Expression(s)) },
		"R51Expression": func(s *Store, r *Operator) []types.Entity { return one(r.R51Expression(s)) },
		"R47Subtype":    func(s *Store, r *Operator) []types.Entity { return variant(r.R47Subtype(s)) },
		"R15Expression": func(s *Store, r *Operator) []types.Entity { return one(r.R15Expression(s)) },
	}),
	kindOf(EntityBinary, func(s *Store) *store.Collection[*Binary] { return s.binaries }, nav[*Binary]{
		"R47Operator": func(s *Store, r *Binary) []types.Entity { return many(r.R47Operator(s)) },
	}),
	kindOf(EntityIntegerLiteral, func(s *Store) *store.Collection[*IntegerLiteral] { return s.integerLiterals }, nav[*IntegerLiteral]{
		"R15Expression": func(s *Store, r *IntegerLiteral) []types.Entity { return one(r.R15Expression(s)) },
	}),
	kindOf(EntityBooleanLiteral, func(s *Store) *store.Collection[*BooleanLiteral] { return s.booleanLiterals }, nav[*BooleanLiteral]{
		"R15Expression": func(s *Store, r *BooleanLiteral) []types.Entity { return one(r.R15Expression(s)) },
	}),
	kindOf(EntityVariableExpression, func(s *Store) *store.Collection[*VariableExpression] { return s.variableExpressions }, nav[*VariableExpression]{
		"R15Expression": func(s *Store, r *VariableExpression) []types.Entity { return one(r.R15Expression(s)) },
	}),
}

// Kinds returns every entity type in catalog order.
func Kinds() []Kind {
	return slices.Clone(catalog)
}

// LookupKind finds an entity type by type name ("LetStatement"), snake case
// name ("let_statement") or collection name ("let_statements"), ignoring
// case.
func LookupKind(name string) (Kind, error) {
	for _, k := range catalog {
		if strings.EqualFold(name, k.Name) ||
			strings.EqualFold(name, k.Collection) ||
			strings.EqualFold(name, inflect.Underscore(k.Name)) {
			return k, nil
		}
	}
	return Kind{}, fmt.Errorf("%w: %q", types.ErrUnknownEntity, name)
}

// Count returns the number of records of k in s.
func (k Kind) Count(s *Store) int { return k.count(s) }

// List returns the records of k in insertion order.
func (k Kind) List(s *Store) []types.Entity { return k.list(s) }

// Exhume returns the record of k registered under id, or a
// *types.NotFoundError.
func (k Kind) Exhume(s *Store, id string) (types.Entity, error) {
	r, ok := k.exhume(s, id)
	if !ok {
		return nil, &types.NotFoundError{Entity: k.Name, ID: id}
	}
	return r, nil
}

// Navigators returns the relationship names Navigate accepts for k, sorted.
func (k Kind) Navigators() []string {
	names := make([]string, 0, len(k.navs))
	for name := range k.navs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Navigate follows rel from the record of k registered under id. A required
// relationship that dangles is reported as an error wrapping
// types.ErrNotFound instead of panicking.
func (k Kind) Navigate(s *Store, id, rel string) (out []types.Entity, err error) {
	fn, ok := k.navs[rel]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrUnknownRelationship, k.Name, rel)
	}
	r, err := k.Exhume(s, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			nf, isNF := p.(*types.NotFoundError)
			if !isNF {
				panic(p)
			}
			out, err = nil, fmt.Errorf("%s %s %s: %w", k.Name, id, rel, nf)
		}
	}()
	return fn(s, r), nil
}
