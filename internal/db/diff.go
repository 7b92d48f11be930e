package db

// Diff computes the changes that turn current into desired:
// toAdd = desired - current and toRemove = current - desired.
// Order follows the input slices; duplicates are reported once.
func Diff[K comparable](current, desired []K) (toAdd, toRemove []K) {
	have := make(map[K]struct{}, len(current))
	for _, k := range current {
		have[k] = struct{}{}
	}

	want := make(map[K]struct{}, len(desired))
	for _, k := range desired {
		if _, seen := want[k]; seen {
			continue
		}

		want[k] = struct{}{}

		if _, ok := have[k]; !ok {
			toAdd = append(toAdd, k)
		}
	}

	removed := make(map[K]struct{})
	for _, k := range current {
		if _, ok := want[k]; ok {
			continue
		}

		if _, seen := removed[k]; seen {
			continue
		}

		removed[k] = struct{}{}
		toRemove = append(toRemove, k)
	}

	return toAdd, toRemove
}
