package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// Unique returns s without repeated elements, keeping the first occurrence.
func Unique[S ~[]E, E comparable](s S) S {
	if len(s) == 0 {
		return nil
	}

	seen := make(map[E]struct{}, len(s))
	out := make(S, 0, len(s))

	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Missing returns the elements of want that are not present in have, in want order.
func Missing[E comparable](want []E, have map[E]struct{}) []E {
	var out []E

	for _, v := range want {
		if _, ok := have[v]; !ok {
			out = append(out, v)
		}
	}

	return out
}
