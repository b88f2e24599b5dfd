package arena

import "fmt"

// DeclarationId is an opaque index into an Arena. It is stable for the
// lifetime of the compiler invocation that produced it (spec §3.3).
type DeclarationId uint64

// Root is the reserved id of the arena's root namespace.
const Root DeclarationId = 0

// Dummy is a placeholder id used before a declaration has been registered.
const Dummy DeclarationId = ^DeclarationId(0)

func (id DeclarationId) String() string { return fmt.Sprintf("decl#%d", uint64(id)) }

// idGenerator hands out monotonically increasing ids, one past Root.
type idGenerator struct {
	latest uint64
}

func (g *idGenerator) next() DeclarationId {
	g.latest++
	return DeclarationId(g.latest)
}
