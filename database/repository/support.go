package repository

import "strings"

// selection trims the given nicenames and drops blanks and repeats while
// keeping the caller's order.
func selection(nicenames []string) []string {
	seen := make(map[string]struct{}, len(nicenames))
	out := make([]string, 0, len(nicenames))

	for _, item := range nicenames {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		if _, ok := seen[item]; ok {
			continue
		}

		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}
