package matrix

// Selection is an ordered set of canonical skill ids, in the order the user
// picked them. The zero value is an empty selection.
type Selection []string

// Contains reports whether id is part of the selection.
func (s Selection) Contains(id string) bool {
	for _, member := range s {
		if member == id {
			return true
		}
	}
	return false
}

// Add appends id unless it is already selected.
func (s Selection) Add(id string) Selection {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove drops id from the selection, preserving order. The receiver is
// left untouched so history snapshots stay valid.
func (s Selection) Remove(id string) Selection {
	out := make(Selection, 0, len(s))
	for _, member := range s {
		if member != id {
			out = append(out, member)
		}
	}
	return out
}

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	copy(out, s)
	return out
}
