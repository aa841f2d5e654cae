package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nk-arch/go-beans/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Patch("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPatch, "/users/1"},
		{http.MethodDelete, "/users/1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, r, tt.method, tt.path)
			if rr.Code != http.StatusOK {
				t.Errorf("got %d want 200", rr.Code)
			}
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)

	rr := do(t, r, http.MethodGet, "/missing")
	if rr.Code != http.StatusNotFound {
		t.Errorf("got %d want 404", rr.Code)
	}
}

// ── Params ───────────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Body.String() != "42" {
		t.Errorf("param: got %q want %q", rr.Body.String(), "42")
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api", func(api *routing.Router) {
		api.Get("/status", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/status"); rr.Code != http.StatusOK {
		t.Errorf("prefixed route: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/status"); rr.Code != http.StatusNotFound {
		t.Errorf("unprefixed path: got %d want 404", rr.Code)
	}
}

func TestRouter_GroupMiddleware(t *testing.T) {
	r := routing.New()
	r.Group(func(g *routing.Router) {
		g.Middleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Group", "yes")
				next.ServeHTTP(w, req)
			})
		})
		g.Get("/grouped", okHandler)
	})
	r.Get("/plain", okHandler)

	rr := do(t, r, http.MethodGet, "/grouped")
	if rr.Header().Get("X-Group") != "yes" {
		t.Error("group middleware did not run for grouped route")
	}
	rr = do(t, r, http.MethodGet, "/plain")
	if rr.Header().Get("X-Group") != "" {
		t.Error("group middleware leaked onto ungrouped route")
	}
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	r := routing.New()
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		panic("handler exploded")
	})

	rr := do(t, r, http.MethodGet, "/boom")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d want 500", rr.Code)
	}
}
