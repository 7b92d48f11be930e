package db

import (
	"slices"
	"strings"

	"gorm.io/gorm"
)

// UniqueNames trims names, drops empty entries and returns the rest sorted
// without duplicates.
func UniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// FindByNames loads the rows of T whose name column equals normalize(n) for
// one of names. It returns the rows ordered by name and, sorted, the input
// names that matched nothing. Inputs normalizing to the same key are looked
// up once.
func FindByNames[T any](db *gorm.DB, names []string, normalize func(string) string, nameOf func(*T) string) ([]T, []string, error) {
	origin := make(map[string][]string)
	keys := make([]string, 0, len(names))

	var missing []string

	for _, n := range UniqueNames(names) {
		k := normalize(n)
		if k == "" {
			missing = append(missing, n)

			continue
		}

		if _, seen := origin[k]; !seen {
			keys = append(keys, k)
		}

		origin[k] = append(origin[k], n)
	}

	found := []T{}

	if len(keys) > 0 {
		if err := db.Where("name IN ?", keys).Order("name ASC").Find(&found).Error; err != nil {
			return nil, nil, err
		}
	}

	for i := range found {
		delete(origin, nameOf(&found[i]))
	}

	for _, originals := range origin {
		missing = append(missing, originals...)
	}

	slices.Sort(missing)

	return found, missing, nil
}
