package cache

import "strings"

// uniqueTitles trims titles and drops blanks and duplicates, keeping order.
func uniqueTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	uniq := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	return uniq
}
