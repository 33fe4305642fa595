// Package lambdareg implements the compiled-lambda registry (§3.4): for
// every inner lambda hoisted by the upstream pre-pass, the globally unique
// symbol its body was compiled under and the ordered list of free-variable
// names that became its leading parameters.
//
// Symbol uniqueness is grounded in the teacher's internal/modules/virtual_packages_data.go,
// which stamps every virtual package identity with uuid.New() rather than a
// counter, so identities stay stable across recompiles of unrelated code.
package lambdareg

import (
	"fmt"

	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/google/uuid"
)

// Entry is one registry record: the hoisted symbol, capture order, and the
// hoisted function's total arity (captured free variables plus its own
// declared parameters), which the Lowering Engine needs to size the
// Closure it builds over Symbol.
type Entry struct {
	Symbol   string
	FreeVars []string
	Arity    int
}

// Registry maps a Lambda node, by pointer identity, to its Entry. Populated
// by the hoisting pre-pass (external to this core, per §3.4) before the
// Lowering Engine runs.
type Registry struct {
	entries map[*ir.Lambda]Entry
}

func New() *Registry { return &Registry{entries: map[*ir.Lambda]Entry{}} }

// Hoist records a freshly-minted symbol for node, deriving it from namePrefix
// plus a UUID suffix so two lambdas sharing a surface-syntax name (e.g. two
// anonymous lambdas both named "lambda") never collide.
func (r *Registry) Hoist(node *ir.Lambda, namePrefix string, freeVars []string, arity int) Entry {
	e := Entry{
		Symbol:   fmt.Sprintf("%s$%s", namePrefix, uuid.New().String()),
		FreeVars: freeVars,
		Arity:    arity,
	}
	r.entries[node] = e
	return e
}

// Lookup returns the registry entry for node and whether it was found. A
// miss means the pre-pass never hoisted this site, which the Lowering
// Engine treats as an internal-consistency error (§3.4: the engine
// "consults this registry to translate a lambda-expression site").
func (r *Registry) Lookup(node *ir.Lambda) (Entry, bool) {
	e, ok := r.entries[node]
	return e, ok
}
