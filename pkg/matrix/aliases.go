package matrix

// Aliases is a bidirectional lookup between short names and canonical skill
// ids. It is built once per merge and shared read-only; components receive
// it explicitly rather than through a package-level table.
type Aliases struct {
	forward map[string]string // alias -> canonical id
	reverse map[string]string // canonical id -> alias
}

// NewAliases builds an alias table from a raw alias map. Collisions (two
// aliases for the same canonical id, or an alias that shadows a canonical
// id) are reported by the merger, not here; the table keeps the first
// mapping seen.
func NewAliases(raw map[string]string) *Aliases {
	a := &Aliases{
		forward: make(map[string]string, len(raw)),
		reverse: make(map[string]string, len(raw)),
	}
	for alias, id := range raw {
		a.forward[alias] = id
		if _, exists := a.reverse[id]; !exists {
			a.reverse[id] = alias
		}
	}
	return a
}

// Resolve maps an alias to its canonical id. Unknown strings are returned
// unchanged: they are treated as already canonical, and genuinely unknown
// ids surface later as validation errors rather than being swallowed here.
func (a *Aliases) Resolve(nameOrID string) string {
	if id, ok := a.forward[nameOrID]; ok {
		return id
	}
	return nameOrID
}

// Reverse returns the alias for a canonical id, if one exists.
func (a *Aliases) Reverse(canonicalID string) (string, bool) {
	alias, ok := a.reverse[canonicalID]
	return alias, ok
}

// Len returns the number of aliases in the table.
func (a *Aliases) Len() int {
	return len(a.forward)
}
