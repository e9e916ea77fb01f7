package query

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/domain"
)

const (
	DefaultPage  = 0
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "+_id"
)

// allowedOperators is the whitelist of query operators accepted in the q
// filter. Anything else starting with '$' is rejected before it reaches the
// store.
var allowedOperators = map[string]struct{}{
	"$eq":  {},
	"$gt":  {},
	"$gte": {},
	"$in":  {},
	"$lt":  {},
	"$lte": {},
	"$ne":  {},
	"$nin": {},
	"$or":  {},
	"$and": {},
	"$nor": {},
}

// ParseList reads q, page, limit and sort from the request query string and
// returns a validated user.ListQuery. page counts documents to skip, not
// pages.
func ParseList(r *http.Request) (user.ListQuery, error) {
	q := user.ListQuery{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	vals := r.URL.Query()

	if raw := strings.TrimSpace(vals.Get("page")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return user.ListQuery{}, domain.ErrInvalidQuery("page must be a non-negative integer")
		}
		q.Page = n
	}

	if raw := strings.TrimSpace(vals.Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return user.ListQuery{}, domain.ErrInvalidQuery("limit must be a positive integer")
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		q.Limit = n
	}

	sortRaw := strings.TrimSpace(vals.Get("sort"))
	if sortRaw == "" {
		sortRaw = DefaultSort
	}
	sort, err := parseSort(sortRaw)
	if err != nil {
		return user.ListQuery{}, err
	}
	q.Sort = sort

	if raw := strings.TrimSpace(vals.Get("q")); raw != "" {
		var filter map[string]any
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			return user.ListQuery{}, domain.ErrInvalidQuery("q must be a JSON object")
		}
		if err := validateFilter(filter); err != nil {
			return user.ListQuery{}, err
		}
		q.Filter = filter
	}

	return q, nil
}

// parseSort accepts comma-separated "+field" / "-field" entries. A bare
// field name sorts ascending.
func parseSort(raw string) ([]user.SortField, error) {
	parts := strings.Split(raw, ",")
	out := make([]user.SortField, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		desc := false
		switch p[0] {
		case '+':
			p = p[1:]
		case '-':
			desc = true
			p = p[1:]
		}
		if p == "" {
			return nil, domain.ErrInvalidQuery("sort entry missing field name")
		}
		out = append(out, user.SortField{Key: p, Desc: desc})
	}
	if len(out) == 0 {
		return nil, domain.ErrInvalidQuery("sort must name at least one field")
	}
	return out, nil
}

// validateFilter walks the filter recursively and rejects any operator key
// outside the allow-list.
func validateFilter(v any) error {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if strings.HasPrefix(k, "$") {
				if _, ok := allowedOperators[k]; !ok {
					return domain.ErrQueryOperatorNotAllowed(k)
				}
			}
			if err := validateFilter(child); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range t {
			if err := validateFilter(child); err != nil {
				return err
			}
		}
	}
	return nil
}
