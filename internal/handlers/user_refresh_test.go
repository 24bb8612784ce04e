package handlers_test

import (
	"net/http"
	"testing"

	"github.com/example/ario/internal/utils"
)

func refresh(env *testEnv, t *testing.T, token string) *http.Response {
	t.Helper()
	return env.doJSON(t, http.MethodPost, "/users/jwtrefreshtoken", "",
		map[string]interface{}{"refresh_token": token})
}

func TestRefreshRotatesStoredToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a@b.com", "", "Abc123!@", "654321", true)

	first := decodeBody(t, login(env, t, "a@b.com", "Abc123!@"))
	firstRefresh := first["refresh_token"].(string)

	response := refresh(env, t, firstRefresh)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	body := decodeBody(t, response)
	secondRefresh := body["refresh_token"].(string)
	if secondRefresh == firstRefresh {
		t.Fatal("refresh must rotate the refresh token")
	}
	if body["token"] == nil {
		t.Fatal("refresh must mint a new session token")
	}

	// The consumed token was rotated away and must not refresh again.
	if replay := refresh(env, t, firstRefresh); replay.StatusCode != http.StatusForbidden {
		t.Fatalf("replayed refresh: expected 403, got %d", replay.StatusCode)
	}

	// The rotated token is the live one.
	if next := refresh(env, t, secondRefresh); next.StatusCode != http.StatusOK {
		t.Fatalf("rotated refresh: expected 200, got %d", next.StatusCode)
	}
}

func TestRefreshRejectsMissingAndMalformedTokens(t *testing.T) {
	env := newTestEnv(t)

	missing := env.doJSON(t, http.MethodPost, "/users/jwtrefreshtoken", "", map[string]interface{}{})
	if missing.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", missing.StatusCode)
	}

	garbage := refresh(env, t, "not-a-jwt")
	if garbage.StatusCode != http.StatusForbidden {
		t.Fatalf("malformed token: expected 403, got %d", garbage.StatusCode)
	}
}

func TestRefreshRejectsSessionSecretTokens(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "", "Abc123!@", "654321", true)

	// A session token is signed with the wrong secret for this endpoint.
	forged, err := utils.GenerateToken(env.cfg.JWTSecret, user.ID, user.Email, env.cfg.RefreshTTL)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if response := refresh(env, t, forged); response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", response.StatusCode)
	}
}

func TestRefreshRejectsTokenNotMatchingStorage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "", "Abc123!@", "654321", true)

	// Valid signature and claims, but never stored against the account.
	stray, err := utils.GenerateToken(env.cfg.JWTRefreshSecret, user.ID, user.Email, env.cfg.RefreshTTL)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if response := refresh(env, t, stray); response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", response.StatusCode)
	}
}
