package index

import (
	"fmt"
	"sort"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/game"
)

// Family groups registered operations by how a host uses them.
type Family int

const (
	// FamilyScalar operations are called directly from queries.
	FamilyScalar Family = iota
	// FamilyOrdering operations support the total-order index.
	FamilyOrdering
	// FamilyInverted operations support the inverted index.
	FamilyInverted
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyScalar:
		return "scalar"
	case FamilyOrdering:
		return "ordering"
	case FamilyInverted:
		return "inverted"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Operation is a named entry in a Registry. Func holds the Go
// implementation; its concrete type depends on the operation.
type Operation struct {
	Name      string
	Family    Family
	Signature string
	Func      any
}

// Registry is a lookup table of exposed operations, built once and then
// read concurrently.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// Register adds op. Names must be unique.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("operation name is empty")
	}
	if op.Func == nil {
		return fmt.Errorf("operation %s has no implementation", op.Name)
	}
	if _, dup := r.ops[op.Name]; dup {
		return fmt.Errorf("operation %s already registered", op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Operations returns every registered operation sorted by family, then name.
func (r *Registry) Operations() []Operation {
	out := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.ops)
}

// RegisterDefaults registers the scalar game operations, the ordering
// operators and the inverted-index hooks.
func (r *Registry) RegisterDefaults() error {
	ord := DefaultOrderingOps()
	ops := []Operation{
		{Name: "getBoard", Family: FamilyScalar, Signature: "(chessgame, integer) -> chessboard",
			Func: game.Reconstruct},
		{Name: "getFirstMoves", Family: FamilyScalar, Signature: "(chessgame, integer) -> chessgame",
			Func: firstMoves},
		{Name: "hasBoard", Family: FamilyScalar, Signature: "(chessgame, chessboard, integer) -> bool",
			Func: game.ContainsPosition},
		{Name: "hasOpening", Family: FamilyScalar, Signature: "(chessgame, chessgame) -> bool",
			Func: Comparator(game.HasOpening)},

		{Name: "chessgame_cmp", Family: FamilyOrdering, Signature: "(chessgame, chessgame) -> integer",
			Func: ord.Compare},
		{Name: "chessgame_lt", Family: FamilyOrdering, Signature: "(chessgame, chessgame) -> bool", Func: ord.Less},
		{Name: "chessgame_le", Family: FamilyOrdering, Signature: "(chessgame, chessgame) -> bool", Func: ord.LessOrEqual},
		{Name: "chessgame_eq", Family: FamilyOrdering, Signature: "(chessgame, chessgame) -> bool", Func: ord.Equal},
		{Name: "chessgame_ge", Family: FamilyOrdering, Signature: "(chessgame, chessgame) -> bool", Func: ord.GreaterOrEqual},
		{Name: "chessgame_gt", Family: FamilyOrdering, Signature: "(chessgame, chessgame) -> bool", Func: ord.Greater},

		{Name: "extractKeys", Family: FamilyInverted, Signature: "(chessgame) -> key[]",
			Func: ExtractKeys},
		{Name: "extractQueryKeys", Family: FamilyInverted, Signature: "(chessboard, strategy) -> key[]",
			Func: ExtractQueryKeys},
		{Name: "matchRefine", Family: FamilyInverted, Signature: "(bool[], key[], chessboard) -> bool",
			Func: matchRefine},
	}
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// firstMoves exposes truncation with the shape of a scalar function.
func firstMoves(g *game.Game, k int) (*game.Game, error) {
	res, err := g.Truncate(k)
	if err != nil {
		return nil, err
	}
	return res.Game, nil
}

func matchRefine(check []bool, keys []Key, query *chess.Board) bool {
	return MatchRefine(check, keys, query)
}
