// internal/export/chromorder.go
package export

import (
	"sort"
	"strconv"
)

// sortChromosomes orders a resolved chromosome set the way reference
// assemblies list them: numeric ascending, then X, Y, MT, then anything else
// lexically. Processing order is part of the output contract, so it must be
// stable across runs.
func sortChromosomes(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, ni := chromClass(names[i])
		cj, nj := chromClass(names[j])
		if ci != cj {
			return ci < cj
		}
		if ci == 0 {
			return ni < nj
		}
		return names[i] < names[j]
	})
	return names
}

func chromClass(name string) (class int, num int64) {
	if n, err := strconv.ParseInt(name, 10, 64); err == nil {
		return 0, n
	}
	switch name {
	case "X":
		return 1, 0
	case "Y":
		return 2, 0
	case "MT", "M":
		return 3, 0
	}
	return 4, 0
}
