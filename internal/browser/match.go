package browser

import (
	"sort"
	"strings"

	"bcflow/lib/htmlutil"

	"github.com/antzucaro/matchr"
)

func normalizeSpace(s string) string {
	return htmlutil.Clean(s)
}

// matchName reports if an accessible name satisfies the wanted name.
func matchName(name, want string, exact bool) bool {
	name = normalizeSpace(name)
	want = normalizeSpace(want)
	if exact {
		return name == want
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(want))
}

// pick returns the index of the first candidate name matching the locator, or -1.
func pick(names []string, l Locator) int {
	if l.kind == kindCSS {
		if len(names) > 0 {
			return 0
		}
		return -1
	}
	for i, name := range names {
		if matchName(name, l.name, l.exact) {
			return i
		}
	}
	return -1
}

const (
	suggestionCount     = 3
	suggestionThreshold = 0.75
)

// closest ranks candidate names by Jaro-Winkler similarity to want, it is used
// to say what was on the page when an element could not be found.
func closest(names []string, want string) []string {
	want = strings.ToLower(normalizeSpace(want))
	if want == "" {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	seen := map[string]bool{}
	var ranked []scored
	for _, name := range names {
		name = normalizeSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		score := matchr.JaroWinkler(strings.ToLower(name), want, false)
		if score < suggestionThreshold {
			continue
		}
		ranked = append(ranked, scored{name: name, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	var out []string
	for i := 0; i < len(ranked) && i < suggestionCount; i++ {
		out = append(out, ranked[i].name)
	}
	return out
}
