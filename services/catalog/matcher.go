package catalog

import (
	"strings"

	"labprobe/models"
)

// queryVariants generates the alternate spellings tried for a product name.
// Catalog entries are inconsistent about spacing around hyphens, so each
// variant normalizes a different pattern. Order matters: the original name is
// always tried first and the loosest rewrite last.
func queryVariants(name string) []string {
	variants := []string{name}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		for _, seen := range variants {
			if seen == v {
				return
			}
		}
		variants = append(variants, v)
	}

	add(strings.ReplaceAll(name, " -", "-"))
	add(strings.ReplaceAll(name, "- ", "-"))
	add(strings.ReplaceAll(name, " - ", "-"))
	add(strings.Join(strings.Fields(name), " "))

	// The prefix before the first hyphen often matches when the suffix is a
	// panel qualifier the catalog spells differently.
	if idx := strings.Index(name, "-"); idx > 0 {
		add(name[:idx])
	}
	return variants
}

// normalizeName lowercases and collapses whitespace for comparison.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// stripDashes removes hyphens entirely so "Vitamin-D" and "Vitamin D" compare equal.
func stripDashes(name string) string {
	return normalizeName(strings.ReplaceAll(name, "-", " "))
}

// pickMatch selects the best catalog item for the query from a result page.
// Exact matches (case-insensitive, whitespace-normalized, with and without
// hyphens) win over substring matches; within a tier, backend response order
// wins.
func pickMatch(query string, items []models.CatalogItem) (models.CatalogItem, bool) {
	wantNorm := normalizeName(query)
	wantBare := stripDashes(query)

	for _, it := range items {
		got := it.DisplayName()
		if got == "" {
			continue
		}
		if normalizeName(got) == wantNorm || stripDashes(got) == wantBare {
			return it, true
		}
	}
	for _, it := range items {
		got := it.DisplayName()
		if got == "" {
			continue
		}
		if strings.Contains(normalizeName(got), wantNorm) || strings.Contains(wantNorm, normalizeName(got)) {
			return it, true
		}
	}
	return models.CatalogItem{}, false
}
