package query

import (
	"net/http/httptest"
	"testing"

	"github.com/baechuer/userhub/internal/domain"
)

func TestParseList_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/users", nil)

	q, err := ParseList(r)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if q.Page != 0 || q.Limit != 10 {
		t.Fatalf("unexpected defaults: page=%d limit=%d", q.Page, q.Limit)
	}
	if len(q.Sort) != 1 || q.Sort[0].Key != "_id" || q.Sort[0].Desc {
		t.Fatalf("unexpected default sort: %+v", q.Sort)
	}
	if q.Filter != nil {
		t.Fatalf("expected nil filter, got %v", q.Filter)
	}
}

func TestParseList_PageAndLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?page=5&limit=25", nil)

	q, err := ParseList(r)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if q.Page != 5 || q.Limit != 25 {
		t.Fatalf("got page=%d limit=%d", q.Page, q.Limit)
	}
}

func TestParseList_LimitCapped(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?limit=10000", nil)

	q, err := ParseList(r)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if q.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, q.Limit)
	}
}

func TestParseList_BadPage(t *testing.T) {
	for _, raw := range []string{"-1", "abc", "1.5"} {
		r := httptest.NewRequest("GET", "/users?page="+raw, nil)
		if _, err := ParseList(r); !domain.Is(err, "invalid_query") {
			t.Fatalf("page=%q: expected invalid_query, got %v", raw, err)
		}
	}
}

func TestParseList_Sort(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?sort=-age,%2Busername", nil)

	q, err := ParseList(r)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(q.Sort) != 2 {
		t.Fatalf("expected 2 sort fields, got %+v", q.Sort)
	}
	if q.Sort[0].Key != "age" || !q.Sort[0].Desc {
		t.Fatalf("unexpected first sort field: %+v", q.Sort[0])
	}
	if q.Sort[1].Key != "username" || q.Sort[1].Desc {
		t.Fatalf("unexpected second sort field: %+v", q.Sort[1])
	}
}

func TestParseList_SortBareFieldAscends(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?sort=email", nil)

	q, err := ParseList(r)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if q.Sort[0].Key != "email" || q.Sort[0].Desc {
		t.Fatalf("unexpected sort: %+v", q.Sort[0])
	}
}

func TestParseList_FilterAllowedOperators(t *testing.T) {
	r := httptest.NewRequest("GET", `/users?q={"age":{"$gte":18},"$or":[{"is_active":true},{"roles":{"$in":["admin"]}}]}`, nil)

	q, err := ParseList(r)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if q.Filter == nil {
		t.Fatal("expected filter to be set")
	}
}

func TestParseList_FilterForbiddenOperator(t *testing.T) {
	r := httptest.NewRequest("GET", `/users?q={"username":{"$regex":".*"}}`, nil)

	_, err := ParseList(r)
	if !domain.Is(err, "query_operator_not_allowed") {
		t.Fatalf("expected query_operator_not_allowed, got %v", err)
	}
}

func TestParseList_FilterForbiddenOperatorNested(t *testing.T) {
	r := httptest.NewRequest("GET", `/users?q={"$or":[{"username":{"$where":"1"}}]}`, nil)

	_, err := ParseList(r)
	if !domain.Is(err, "query_operator_not_allowed") {
		t.Fatalf("expected query_operator_not_allowed, got %v", err)
	}
}

func TestParseList_FilterNotJSON(t *testing.T) {
	r := httptest.NewRequest("GET", `/users?q=notjson`, nil)

	_, err := ParseList(r)
	if !domain.Is(err, "invalid_query") {
		t.Fatalf("expected invalid_query, got %v", err)
	}
}
