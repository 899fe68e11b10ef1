package jsonschema

import "sync"

// recursionGuard tracks the active set of (schema-URI, instance-pointer)
// tuples during one evaluation call, per §4.C9. Re-entering the same
// tuple — the same $ref resolving back into a schema node that is
// already being evaluated at the same instance location — is a cycle,
// surfaced as an infinite-recursion error record rather than a stack
// overflow.
type recursionGuard struct {
	active map[guardKey]bool
}

type guardKey struct {
	schemaURI        string
	instanceLocation string
}

const guardActiveCap = 16

var recursionGuardPool = sync.Pool{
	New: func() any {
		return &recursionGuard{active: make(map[guardKey]bool, guardActiveCap)}
	},
}

// getRecursionGuard retrieves a recursionGuard from the pool, in the
// teacher's get/put-pool style (httpvalidator/pool.go), reset to empty.
func getRecursionGuard() *recursionGuard {
	g := recursionGuardPool.Get().(*recursionGuard)
	g.reset()
	return g
}

// putRecursionGuard returns a recursionGuard to the pool once its owning
// Evaluate call has returned. Callers must not retain g afterward.
func putRecursionGuard(g *recursionGuard) {
	if g == nil {
		return
	}
	recursionGuardPool.Put(g)
}

func (g *recursionGuard) reset() {
	for k := range g.active {
		delete(g.active, k)
	}
}

// enter returns false if the tuple is already active (a cycle); on
// true, the caller must call leave with the same arguments once its
// subtree evaluation returns.
func (g *recursionGuard) enter(schemaURI, instanceLocation string) bool {
	key := guardKey{schemaURI, instanceLocation}
	if g.active[key] {
		return false
	}
	g.active[key] = true
	return true
}

func (g *recursionGuard) leave(schemaURI, instanceLocation string) {
	delete(g.active, guardKey{schemaURI, instanceLocation})
}
