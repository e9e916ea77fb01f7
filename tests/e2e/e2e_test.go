// Black-box smoke test against a running instance.
//
// Start the server first (ENV=dev MONGO_URI=memory SEED_DEV_USERS=true
// JWT_SECRET=... go run ./cmd/api), then:
//
//	go test -tags e2e ./tests/e2e/
//
//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseURL() string {
	if v := os.Getenv("E2E_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

type Client struct {
	t      *testing.T
	client *http.Client
	token  string
}

func NewClient(t *testing.T) *Client {
	return &Client{
		t:      t,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body any) (int, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, baseURL()+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var resMap map[string]any
	// ignore decode error for 204/empty
	_ = json.NewDecoder(resp.Body).Decode(&resMap)

	return resp.StatusCode, resMap
}

func (c *Client) Post(path string, body any) (int, map[string]any) {
	return c.do("POST", path, body)
}

func (c *Client) Get(path string) (int, map[string]any) {
	return c.do("GET", path, nil)
}

func (c *Client) Put(path string, body any) (int, map[string]any) {
	return c.do("PUT", path, body)
}

func (c *Client) Delete(path string) (int, map[string]any) {
	return c.do("DELETE", path, nil)
}

func TestE2E_Lifecycle(t *testing.T) {
	admin := NewClient(t)

	// 1. Login as the seeded admin
	t.Log("Logging in...")
	status, body := admin.Post("/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "admin",
	})
	require.Equal(t, http.StatusOK, status, "Login failed: %v", body)
	require.Equal(t, "bearer", body["token_type"])
	admin.token = body["access_token"].(string)

	// 2. Create a user
	t.Log("Creating user...")
	ts := time.Now().Unix()
	username := fmt.Sprintf("e2e_user_%d", ts)
	status, body = admin.Post("/api/v1/users", map[string]any{
		"username":   username,
		"password":   "E2ePass123",
		"first_name": "E2e",
		"last_name":  "Tester",
		"email":      fmt.Sprintf("%s@test.com", username),
		"age":        28,
	})
	require.Equal(t, http.StatusCreated, status, "Create failed: %v", body)
	userID := body["user_id"].(string)

	// 3. New user can log in and see their own account
	user := NewClient(t)
	status, body = user.Post("/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "E2ePass123",
	})
	require.Equal(t, http.StatusOK, status)
	user.token = body["access_token"].(string)

	status, body = user.Get("/api/v1/account")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, username, body["username"])

	// 4. Filtered list finds the user
	t.Log("Listing...")
	status, body = admin.Get(fmt.Sprintf(`/api/v1/users?q={"username":{"$eq":"%s"}}`, username))
	require.Equal(t, http.StatusOK, status, "List failed: %v", body)
	assert.Equal(t, float64(1), body["total"])

	// 5. Update
	status, body = admin.Put("/api/v1/users/"+userID, map[string]any{
		"first_name": "Renamed",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Renamed", body["first_name"])

	// 6. Password change
	t.Log("Changing password...")
	status, body = user.Post("/api/v1/account/change-password", map[string]string{
		"current_password": "E2ePass123",
		"new_password":     "E2eNewPass99",
	})
	require.Equal(t, http.StatusOK, status, "Change password failed: %v", body)

	status, _ = NewClient(t).Post("/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "E2ePass123",
	})
	assert.Equal(t, http.StatusUnauthorized, status, "old password must be rejected")

	// 7. Delete
	status, _ = admin.Delete("/api/v1/users/" + userID)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = admin.Get("/api/v1/users/" + userID)
	assert.Equal(t, http.StatusNotFound, status)

	t.Log("E2E Test Completed Successfully")
}

func TestE2E_AuthRejections(t *testing.T) {
	anon := NewClient(t)

	status, body := anon.Get("/api/v1/account")
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized access", body["detail"])

	anon.token = "not-a-jwt"
	status, body = anon.Get("/api/v1/account")
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["detail"])

	status, body = NewClient(t).Post("/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Incorrect email or password", body["detail"])
}

func TestE2E_Health(t *testing.T) {
	status, body := NewClient(t).Get("/healthz")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
