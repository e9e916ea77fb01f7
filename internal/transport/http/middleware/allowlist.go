package middleware

import "strings"

// AllowList holds the paths that bypass token authentication. An entry is
// either an exact path or a prefix ending in a single '*'.
type AllowList struct {
	exact    map[string]struct{}
	prefixes []string
}

func NewAllowList(entries []string) *AllowList {
	al := &AllowList{exact: make(map[string]struct{})}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.HasSuffix(e, "*") {
			al.prefixes = append(al.prefixes, strings.TrimSuffix(e, "*"))
			continue
		}
		al.exact[e] = struct{}{}
	}
	return al
}

func (al *AllowList) Allows(path string) bool {
	if al == nil {
		return false
	}
	if _, ok := al.exact[path]; ok {
		return true
	}
	for _, p := range al.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
