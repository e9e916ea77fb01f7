package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baechuer/userhub/internal/application/auth"
	"github.com/baechuer/userhub/internal/domain"
)

// ---- fakes ----

type fakeDecoder struct {
	id     auth.Identity
	err    error
	calls  int
	gotTok string
}

func (f *fakeDecoder) Decode(token string) (auth.Identity, error) {
	f.calls++
	f.gotTok = token
	return f.id, f.err
}

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusUnauthorized)
}

type nextRecorder struct {
	calls int
	gotID auth.Identity
	hadID bool
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.gotID, n.hadID = IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func runAuthMW(t *testing.T, dec TokenDecoder, allow *AllowList, req *http.Request) (*writeErrRecorder, *nextRecorder, *httptest.ResponseRecorder) {
	t.Helper()

	we := &writeErrRecorder{}
	nx := &nextRecorder{}
	rr := httptest.NewRecorder()

	Auth(dec, allow, we.fn)(nx).ServeHTTP(rr, req)
	return we, nx, rr
}

// ---- tests ----

func TestAuth_MissingHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/account", nil)

	we, nx, _ := runAuthMW(t, &fakeDecoder{}, NewAllowList(nil), req)

	if nx.calls != 0 {
		t.Fatal("next should not be called")
	}
	if we.calls != 1 || !domain.Is(we.last, "token_missing") {
		t.Fatalf("expected token_missing, got %v", we.last)
	}
}

func TestAuth_BadScheme(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/account", nil)
	req.Header.Set("Authorization", "Basic abc123")

	we, nx, _ := runAuthMW(t, &fakeDecoder{}, NewAllowList(nil), req)

	if nx.calls != 0 {
		t.Fatal("next should not be called")
	}
	if !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", we.last)
	}
}

func TestAuth_BearerSchemeIsCaseSensitive(t *testing.T) {
	dec := &fakeDecoder{id: auth.Identity{Username: "alice", UserID: "u-1"}}

	for _, scheme := range []string{"bearer", "BEARER", "BeArEr"} {
		req := httptest.NewRequest("GET", "/api/account", nil)
		req.Header.Set("Authorization", scheme+" tok123")

		we, nx, _ := runAuthMW(t, dec, NewAllowList(nil), req)

		if nx.calls != 0 {
			t.Fatalf("%q scheme: next should not be called", scheme)
		}
		if !domain.Is(we.last, "token_invalid") {
			t.Fatalf("%q scheme: expected token_invalid, got %v", scheme, we.last)
		}
		if dec.calls != 0 {
			t.Fatalf("%q scheme: decoder should not run", scheme)
		}
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/account", nil)
	req.Header.Set("Authorization", "Bearer nope")

	dec := &fakeDecoder{err: domain.ErrTokenInvalid()}
	we, nx, _ := runAuthMW(t, dec, NewAllowList(nil), req)

	if nx.calls != 0 {
		t.Fatal("next should not be called")
	}
	if !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", we.last)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/account", nil)
	req.Header.Set("Authorization", "Bearer old")

	dec := &fakeDecoder{err: domain.ErrTokenExpired()}
	we, _, _ := runAuthMW(t, dec, NewAllowList(nil), req)

	if !domain.Is(we.last, "token_expired") {
		t.Fatalf("expected token_expired, got %v", we.last)
	}
}

func TestAuth_IdentityInjected(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/account", nil)
	req.Header.Set("Authorization", "Bearer tok")

	id := auth.Identity{Username: "alice", UserID: "u-1", Email: "alice@example.com"}
	we, nx, _ := runAuthMW(t, &fakeDecoder{id: id}, NewAllowList(nil), req)

	if we.calls != 0 {
		t.Fatalf("unexpected error: %v", we.last)
	}
	if !nx.hadID || nx.gotID.Username != "alice" || nx.gotID.UserID != "u-1" {
		t.Fatalf("identity not injected: %+v", nx.gotID)
	}
}

func TestAuth_EmptyUsernameRejected(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/account", nil)
	req.Header.Set("Authorization", "Bearer tok")

	we, nx, _ := runAuthMW(t, &fakeDecoder{id: auth.Identity{UserID: "u-1"}}, NewAllowList(nil), req)

	if nx.calls != 0 {
		t.Fatal("next should not be called")
	}
	if !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", we.last)
	}
}

func TestAuth_AllowListedPathSkipsAuth(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)

	dec := &fakeDecoder{}
	allow := NewAllowList([]string{"/healthz", "/api/auth/login", "/docs*"})
	we, nx, _ := runAuthMW(t, dec, allow, req)

	if we.calls != 0 || nx.calls != 1 {
		t.Fatalf("allow-listed path should pass through: errs=%d next=%d", we.calls, nx.calls)
	}
	if dec.calls != 0 {
		t.Fatal("decoder should not run on allow-listed path")
	}
	if nx.hadID {
		t.Fatal("no identity expected on allow-listed path")
	}
}

func TestAuth_AllowListPrefix(t *testing.T) {
	allow := NewAllowList([]string{"/docs*"})
	for _, path := range []string{"/docs", "/docs/", "/docs/openapi.json"} {
		req := httptest.NewRequest("GET", path, nil)
		we, nx, _ := runAuthMW(t, &fakeDecoder{}, allow, req)
		if we.calls != 0 || nx.calls != 1 {
			t.Fatalf("%s should be allow-listed", path)
		}
	}
}
