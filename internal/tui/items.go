package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// parseItems reads "cube:2 plate:1" style input into a quantity map.
// A bare name counts as one; an empty string clears everything.
func parseItems(s string) (map[string]int, error) {
	items := make(map[string]int)
	for _, field := range strings.Fields(s) {
		name, qtyStr, found := strings.Cut(field, ":")
		if name == "" {
			return nil, fmt.Errorf("invalid item %q", field)
		}
		qty := 1
		if found {
			var err error
			qty, err = strconv.Atoi(qtyStr)
			if err != nil || qty < 0 {
				return nil, fmt.Errorf("invalid quantity in %q", field)
			}
		}
		items[name] += qty
	}
	return items, nil
}

// formatItems renders a quantity map back into parseItems input form.
func formatItems(items map[string]int) string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, items[name])
	}
	return strings.Join(parts, " ")
}
