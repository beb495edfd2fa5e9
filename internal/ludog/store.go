package ludog

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/mesh-intelligence/ossuary/pkg/ids"
	"github.com/mesh-intelligence/ossuary/pkg/store"
)

// Every collection is exposed through four methods: InterE registers a
// record, replacing any record with the same identifier; ExhumeE looks one
// up; MustE looks one up and panics with a *types.NotFoundError when it is
// missing; IterE yields them all in insertion order.

// Option configures a Store.
type Option func(*config)

type config struct {
	locking  string
	policy   ids.Policy
	observer store.Observer
	logger   *slog.Logger
}

// WithLocking selects the locking strategy of every collection, one of the
// types.Locking* names.
func WithLocking(strategy string) Option {
	return func(c *config) { c.locking = strategy }
}

// WithIDPolicy selects how constructors assign identifiers. Singleton
// entities always use derived identifiers.
func WithIDPolicy(p ids.Policy) Option {
	return func(c *config) { c.policy = p }
}

// WithObserver reports collection timings to obs.
func WithObserver(obs store.Observer) Option {
	return func(c *config) { c.observer = obs }
}

// WithLogger sets the logger handed to every collection.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Store holds one collection per entity type. It enforces no referential
// integrity between collections; see Verify.
type Store struct {
	policy ids.Policy
	logger *slog.Logger

	blocks               *store.Collection[*Block]
	statements           *store.Collection[*Statement]
	expressionStatements *store.Collection[*ExpressionStatement]
	letStatements        *store.Collection[*LetStatement]
	localVariables       *store.Collection[*LocalVariable]
	expressions          *store.Collection[*Expression]
	calls                *store.Collection[*Call]
	arguments            *store.Collection[*Argument]
	operators            *store.Collection[*Operator]
	binaries             *store.Collection[*Binary]
	integerLiterals      *store.Collection[*IntegerLiteral]
	booleanLiterals      *store.Collection[*BooleanLiteral]
	variableExpressions  *store.Collection[*VariableExpression]

	stmtsByBlock         *store.Index[*Statement]           // R18
	stmtsByNext          *store.Index[*Statement]           // R17
	stmtsBySubtype       *store.Index[*Statement]           // R16
	exprStmtsByExpr      *store.Index[*ExpressionStatement] // R31
	letsByExpr           *store.Index[*LetStatement]        // R20
	letsByVariable       *store.Index[*LetStatement]        // R21
	exprsBySubtype       *store.Index[*Expression]          // R15
	callsByCallee        *store.Index[*Call]                // R29
	argsByCall           *store.Index[*Argument]            // R28
	argsByExpr           *store.Index[*Argument]            // R37
	argsByNext           *store.Index[*Argument]            // R27
	opsByLHS             *store.Index[*Operator]            // R50
	opsByRHS             *store.Index[*Operator]            // R51
	opsBySubtype         *store.Index[*Operator]            // R47
}

// NewStore returns an empty store.
func NewStore(opts ...Option) (*Store, error) {
	cfg := config{policy: ids.Random, observer: store.NopObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Store{policy: cfg.policy, logger: cfg.logger}
	var err error
	collect := func(name string) []store.Option {
		if err != nil {
			return nil
		}
		g, gerr := store.NewGuard(cfg.locking, name, cfg.logger)
		if gerr != nil {
			err = fmt.Errorf("collection %s: %w", name, gerr)
			return nil
		}
		return []store.Option{store.WithGuard(g), store.WithObserver(cfg.observer), store.WithLogger(cfg.logger)}
	}
	s.blocks = store.New[*Block](EntityBlock, collect(EntityBlock)...)
	s.statements = store.New[*Statement](EntityStatement, collect(EntityStatement)...)
	s.expressionStatements = store.New[*ExpressionStatement](EntityExpressionStatement, collect(EntityExpressionStatement)...)
	s.letStatements = store.New[*LetStatement](EntityLetStatement, collect(EntityLetStatement)...)
	s.localVariables = store.New[*LocalVariable](EntityLocalVariable, collect(EntityLocalVariable)...)
	s.expressions = store.New[*Expression](EntityExpression, collect(EntityExpression)...)
	s.calls = store.New[*Call](EntityCall, collect(EntityCall)...)
	s.arguments = store.New[*Argument](EntityArgument, collect(EntityArgument)...)
	s.operators = store.New[*Operator](EntityOperator, collect(EntityOperator)...)
	s.binaries = store.New[*Binary](EntityBinary, collect(EntityBinary)...)
	s.integerLiterals = store.New[*IntegerLiteral](EntityIntegerLiteral, collect(EntityIntegerLiteral)...)
	s.booleanLiterals = store.New[*BooleanLiteral](EntityBooleanLiteral, collect(EntityBooleanLiteral)...)
	s.variableExpressions = store.New[*VariableExpression](EntityVariableExpression, collect(EntityVariableExpression)...)
	if err != nil {
		return nil, err
	}

	s.stmtsByBlock = s.statements.IndexBy("R18", func(r *Statement) []string { return keyOf(r.BlockID) })
	s.stmtsByNext = s.statements.IndexBy("R17", func(r *Statement) []string { return keyOf(r.NextID) })
	s.stmtsBySubtype = s.statements.IndexBy("R16", func(r *Statement) []string {
		return tagKey(string(r.Subtype.Kind), r.Subtype.ID)
	})
	s.exprStmtsByExpr = s.expressionStatements.IndexBy("R31", func(r *ExpressionStatement) []string { return keyOf(r.ExpressionID) })
	s.letsByExpr = s.letStatements.IndexBy("R20", func(r *LetStatement) []string { return keyOf(r.ExpressionID) })
	s.letsByVariable = s.letStatements.IndexBy("R21", func(r *LetStatement) []string { return keyOf(r.VariableID) })
	s.exprsBySubtype = s.expressions.IndexBy("R15", func(r *Expression) []string {
		return tagKey(string(r.Subtype.Kind), r.Subtype.ID)
	})
	s.callsByCallee = s.calls.IndexBy("R29", func(r *Call) []string { return keyOf(r.CalleeID) })
	s.argsByCall = s.arguments.IndexBy("R28", func(r *Argument) []string { return keyOf(r.CallID) })
	s.argsByExpr = s.arguments.IndexBy("R37", func(r *Argument) []string { return keyOf(r.ExpressionID) })
	s.argsByNext = s.arguments.IndexBy("R27", func(r *Argument) []string { return keyOf(r.NextID) })
	s.opsByLHS = s.operators.IndexBy("R50", func(r *Operator) []string { return keyOf(r.LHSID) })
	s.opsByRHS = s.operators.IndexBy("R51", func(r *Operator) []string { return keyOf(r.RHSID) })
	s.opsBySubtype = s.operators.IndexBy("R47", func(r *Operator) []string {
		return tagKey(string(r.Subtype.Kind), r.Subtype.ID)
	})
	return s, nil
}

// Policy returns the identifier policy of the constructors.
func (s *Store) Policy() ids.Policy { return s.policy }

func keyOf(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

// tagKey indexes a tagged union by kind and id. Unit variants are not
// indexed; nothing navigates back to them.
func tagKey(kind, id string) []string {
	if id == "" {
		return nil
	}
	return []string{kind + "/" + id}
}

func (s *Store) makeID(kind string, args ...any) string {
	return s.policy.Make(kind, args...)
}

// Block collection.

func (s *Store) InterBlock(r *Block) { s.blocks.Inter(r) }

func (s *Store) ExhumeBlock(id string) (*Block, bool) { return s.blocks.Exhume(id) }

func (s *Store) MustBlock(id string) *Block { return s.blocks.Must(id) }

func (s *Store) IterBlock() iter.Seq2[string, *Block] { return s.blocks.Iter() }

// Statement collection.

func (s *Store) InterStatement(r *Statement) { s.statements.Inter(r) }

func (s *Store) ExhumeStatement(id string) (*Statement, bool) { return s.statements.Exhume(id) }

func (s *Store) MustStatement(id string) *Statement { return s.statements.Must(id) }

func (s *Store) IterStatement() iter.Seq2[string, *Statement] { return s.statements.Iter() }

// ExpressionStatement collection.

func (s *Store) InterExpressionStatement(r *ExpressionStatement) { s.expressionStatements.Inter(r) }

func (s *Store) ExhumeExpressionStatement(id string) (*ExpressionStatement, bool) { return s.expressionStatements.Exhume(id) }

func (s *Store) MustExpressionStatement(id string) *ExpressionStatement { return s.expressionStatements.Must(id) }

func (s *Store) IterExpressionStatement() iter.Seq2[string, *ExpressionStatement] { return s.expressionStatements.Iter() }

// LetStatement collection.

func (s *Store) InterLetStatement(r *LetStatement) { s.letStatements.Inter(r) }

func (s *Store) ExhumeLetStatement(id string) (*LetStatement, bool) { return s.letStatements.Exhume(id) }

func (s *Store) MustLetStatement(id string) *LetStatement { return s.letStatements.Must(id) }

func (s *Store) IterLetStatement() iter.Seq2[string, *LetStatement] { return s.letStatements.Iter() }

// LocalVariable collection.

func (s *Store) InterLocalVariable(r *LocalVariable) { s.localVariables.Inter(r) }

func (s *Store) ExhumeLocalVariable(id string) (*LocalVariable, bool) { return s.localVariables.Exhume(id) }

func (s *Store) MustLocalVariable(id string) *LocalVariable { return s.localVariables.Must(id) }

func (s *Store) IterLocalVariable() iter.Seq2[string, *LocalVariable] { return s.localVariables.Iter() }

// Expression collection.

func (s *Store) InterExpression(r *Expression) { s.expressions.Inter(r) }

func (s *Store) ExhumeExpression(id string) (*Expression, bool) { return s.expressions.Exhume(id) }

func (s *Store) MustExpression(id string) *Expression { return s.expressions.Must(id) }

func (s *Store) IterExpression() iter.Seq2[string, *Expression] { return s.expressions.Iter() }

// Call collection.

func (s *Store) InterCall(r *Call) { s.calls.Inter(r) }

func (s *Store) ExhumeCall(id string) (*Call, bool) { return s.calls.Exhume(id) }

func (s *Store) MustCall(id string) *Call { return s.calls.Must(id) }

func (s *Store) IterCall() iter.Seq2[string, *Call] { return s.calls.Iter() }

// Argument collection.

func (s *Store) InterArgument(r *Argument) { s.arguments.Inter(r) }

func (s *Store) ExhumeArgument(id string) (*Argument, bool) { return s.arguments.Exhume(id) }

func (s *Store) MustArgument(id string) *Argument { return s.arguments.Must(id) }

func (s *Store) IterArgument() iter.Seq2[string, *Argument] { return s.arguments.Iter() }

// Operator collection.

func (s *Store) InterOperator(r *Operator) { s.operators.Inter(r) }

func (s *Store) ExhumeOperator(id string) (*Operator, bool) { return s.operators.Exhume(id) }

func (s *Store) MustOperator(id string) *Operator { return s.operators.Must(id) }

func (s *Store) IterOperator() iter.Seq2[string, *Operator] { return s.operators.Iter() }

// Binary collection.

func (s *Store) InterBinary(r *Binary) { s.binaries.Inter(r) }

func (s *Store) ExhumeBinary(id string) (*Binary, bool) { return s.binaries.Exhume(id) }

func (s *Store) MustBinary(id string) *Binary { return s.binaries.Must(id) }

func (s *Store) IterBinary() iter.Seq2[string, *Binary] { return s.binaries.Iter() }

// IntegerLiteral collection.

func (s *Store) InterIntegerLiteral(r *IntegerLiteral) { s.integerLiterals.Inter(r) }

func (s *Store) ExhumeIntegerLiteral(id string) (*IntegerLiteral, bool) { return s.integerLiterals.Exhume(id) }

func (s *Store) MustIntegerLiteral(id string) *IntegerLiteral { return s.integerLiterals.Must(id) }

func (s *Store) IterIntegerLiteral() iter.Seq2[string, *IntegerLiteral] { return s.integerLiterals.Iter() }

// BooleanLiteral collection.

func (s *Store) InterBooleanLiteral(r *BooleanLiteral) { s.booleanLiterals.Inter(r) }

func (s *Store) ExhumeBooleanLiteral(id string) (*BooleanLiteral, bool) { return s.booleanLiterals.Exhume(id) }

func (s *Store) MustBooleanLiteral(id string) *BooleanLiteral { return s.booleanLiterals.Must(id) }

func (s *Store) IterBooleanLiteral() iter.Seq2[string, *BooleanLiteral] { return s.booleanLiterals.Iter() }

// VariableExpression collection.

func (s *Store) InterVariableExpression(r *VariableExpression) { s.variableExpressions.Inter(r) }

func (s *Store) ExhumeVariableExpression(id string) (*VariableExpression, bool) { return s.variableExpressions.Exhume(id) }

func (s *Store) MustVariableExpression(id string) *VariableExpression { return s.variableExpressions.Must(id) }

func (s *Store) IterVariableExpression() iter.Seq2[string, *VariableExpression] { return s.variableExpressions.Iter() }
