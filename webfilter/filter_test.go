package webfilter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDispatcherSet_Membership(t *testing.T) {
	tests := []struct {
		name  string
		set   DispatcherSet
		has   []DispatcherType
		lacks []DispatcherType
	}{
		{
			name:  "request and async",
			set:   NewDispatcherSet(DispatchRequest, DispatchAsync),
			has:   []DispatcherType{DispatchRequest, DispatchAsync},
			lacks: []DispatcherType{DispatchError, DispatchForward},
		},
		{
			name:  "error only",
			set:   NewDispatcherSet(DispatchError),
			has:   []DispatcherType{DispatchError},
			lacks: []DispatcherType{DispatchRequest, DispatchAsync, DispatchForward},
		},
		{
			name:  "empty",
			set:   NewDispatcherSet(),
			lacks: []DispatcherType{DispatchRequest, DispatchAsync, DispatchError, DispatchForward},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, d := range tt.has {
				if !tt.set.Has(d) {
					t.Errorf("expected set to contain %s", d)
				}
			}
			for _, d := range tt.lacks {
				if tt.set.Has(d) {
					t.Errorf("expected set to not contain %s", d)
				}
			}
		})
	}
}

func TestDispatcherSet_Types(t *testing.T) {
	set := NewDispatcherSet(DispatchAsync, DispatchRequest)
	types := set.Types()
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(types))
	}
	// Declaration order, not insertion order
	if types[0] != DispatchRequest || types[1] != DispatchAsync {
		t.Errorf("expected [REQUEST ASYNC], got %v", types)
	}
}

func TestDispatchTypeFromContext_DefaultsToRequest(t *testing.T) {
	if got := DispatchTypeFromContext(context.Background()); got != DispatchRequest {
		t.Errorf("expected default dispatch REQUEST, got %s", got)
	}
}

func TestRedispatch_MarksRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/async", nil)
	if got := DispatchTypeFromContext(r.Context()); got != DispatchRequest {
		t.Fatalf("fresh request should dispatch as REQUEST, got %s", got)
	}

	async := Redispatch(r, DispatchAsync)
	if got := DispatchTypeFromContext(async.Context()); got != DispatchAsync {
		t.Errorf("expected ASYNC after redispatch, got %s", got)
	}

	// Original request is untouched
	if got := DispatchTypeFromContext(r.Context()); got != DispatchRequest {
		t.Errorf("original request dispatch changed to %s", got)
	}
}

func TestFilterFunc_AdaptsMiddleware(t *testing.T) {
	var called bool
	f := FilterFunc(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	})

	h := f.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("filter did not run")
	}
	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}
