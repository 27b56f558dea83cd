package webmetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func requestWithBearer(token string) *RequestContext {
	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return &RequestContext{Request: r, Route: "/api", StatusCode: http.StatusOK}
}

func TestClientTagsContributor_TagsSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "svc-billing"})

	tags := ClientTagsContributor{}.ContributeTags(requestWithBearer(token))

	got, ok := tagValue(tags, "client.id")
	if !ok {
		t.Fatal("client.id tag missing")
	}
	if got != "svc-billing" {
		t.Errorf("client.id = %q, want %q", got, "svc-billing")
	}
}

func TestClientTagsContributor_NoAuthorizationHeader(t *testing.T) {
	if tags := (ClientTagsContributor{}).ContributeTags(requestWithBearer("")); len(tags) != 0 {
		t.Errorf("expected no tags without a bearer token, got %v", tags)
	}
}

func TestClientTagsContributor_MalformedToken(t *testing.T) {
	if tags := (ClientTagsContributor{}).ContributeTags(requestWithBearer("not-a-jwt")); len(tags) != 0 {
		t.Errorf("expected no tags for a malformed token, got %v", tags)
	}
}

func TestClientTagsContributor_MissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"aud": "internal"})
	if tags := (ClientTagsContributor{}).ContributeTags(requestWithBearer(token)); len(tags) != 0 {
		t.Errorf("expected no tags without a subject claim, got %v", tags)
	}
}

func TestClientTagsContributor_NonBearerScheme(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rc := &RequestContext{Request: r, Route: "/api", StatusCode: http.StatusOK}

	if tags := (ClientTagsContributor{}).ContributeTags(rc); len(tags) != 0 {
		t.Errorf("expected no tags for non-bearer auth, got %v", tags)
	}
}
