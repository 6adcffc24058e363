package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/services"
	"github.com/google/go-cmp/cmp"
)

var fixtureNow = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

func newFixtureServer(t *testing.T, opts FixtureOpts) (*FixtureHandler, *httptest.Server) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixtureNow
	}
	h, err := NewFixtureHandler(opts)
	if err != nil {
		t.Fatalf("NewFixtureHandler() error: %v", err)
	}

	router := NewBasicRouter()
	router.Handler(h)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return h, ts
}

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if diff := cmp.Diff([]string{"first", "second", "handler"}, order); diff != "" {
			t.Errorf("middleware order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
			t.Errorf("expected Allow header to list GET, got %q", allow)
		}
	})

	t.Run("Routes", func(t *testing.T) {
		h, err := NewFixtureHandler(FixtureOpts{Rows: 1, Now: fixtureNow})
		if err != nil {
			t.Fatal(err)
		}

		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		router.Handler(h)

		want := []string{"GET /health", "/users/", "/employees/"}
		if diff := cmp.Diff(want, router.Routes()); diff != "" {
			t.Errorf("routes mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/", nil))

		out := buf.String()
		for _, want := range []string{"request", "method=GET", "path=/users/", "status=418", "bytes=15"} {
			if !strings.Contains(out, want) {
				t.Errorf("log line missing %q: %s", want, out)
			}
		}
	})

	t.Run("Recover", func(t *testing.T) {
		logger := log.New(io.Discard)
		h := RecoverMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestFixtureHandler(t *testing.T) {
	t.Run("Serves List Payloads", func(t *testing.T) {
		h, ts := newFixtureServer(t, FixtureOpts{Rows: 25, Seed: 1})

		resp, err := http.Get(ts.URL + "/employees/")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}

		var employees []FixtureEmployee
		if err := json.NewDecoder(resp.Body).Decode(&employees); err != nil {
			t.Fatalf("failed to decode employees: %v", err)
		}
		if diff := cmp.Diff(h.Employees(), employees); diff != "" {
			t.Errorf("served employees differ from generated (-want +got):\n%s", diff)
		}
	})

	t.Run("Keyed Payloads Parse As Keyed", func(t *testing.T) {
		_, ts := newFixtureServer(t, FixtureOpts{Rows: 10, Seed: 2, Keyed: true})
		api := services.NewAPIService(ts.URL, ts.Client())

		for path, key := range map[string]string{"/users/": "users", "/employees/": "employees"} {
			body, err := api.FetchJSON(context.Background(), path)
			if err != nil {
				t.Fatalf("FetchJSON(%s) error: %v", path, err)
			}

			payload, err := dataset.ParsePayload(body)
			if err != nil {
				t.Fatalf("ParsePayload(%s) error: %v", path, err)
			}
			if payload.Shape() != dataset.ShapeKeyed {
				t.Errorf("expected keyed shape for %s, got %s", path, payload.Shape())
			}
			records, err := payload.Records(key)
			if err != nil || len(records) != 10 {
				t.Errorf("expected 10 %s records, got %d (%v)", key, len(records), err)
			}
		}
	})

	t.Run("Same Seed Same Bytes", func(t *testing.T) {
		a, err := NewFixtureHandler(FixtureOpts{Rows: 50, Seed: 9, Now: fixtureNow})
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewFixtureHandler(FixtureOpts{Rows: 50, Seed: 9, Now: fixtureNow})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a.empBody, b.empBody) || !bytes.Equal(a.usersBody, b.usersBody) {
			t.Error("expected identical payloads for identical seeds")
		}
	})

	t.Run("Orphans And Nulls", func(t *testing.T) {
		h, err := NewFixtureHandler(FixtureOpts{Rows: 2000, Seed: 4, Now: fixtureNow})
		if err != nil {
			t.Fatal(err)
		}

		orphans, withNulls := 0, 0
		for _, e := range h.Employees() {
			if e.UserID > len(h.Users()) {
				orphans++
			}
			if e.Position == nil || e.HireDate == nil || e.PhoneNumber == nil ||
				e.EmergencyContact == nil || e.EmailAddress == nil {
				withNulls++
			}
		}

		if orphans < 40 || orphans > 200 {
			t.Errorf("expected about 5%% orphans, got %d of 2000", orphans)
		}
		if withNulls < 100 || withNulls > 350 {
			t.Errorf("expected about 10%% rows with nulls, got %d of 2000", withNulls)
		}
	})

	t.Run("Unknown Path And Method", func(t *testing.T) {
		_, ts := newFixtureServer(t, FixtureOpts{Rows: 1})

		resp, err := http.Get(ts.URL + "/users/42")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}

		resp, err = http.Post(ts.URL+"/users/", "application/json", strings.NewReader("{}"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestServer(t *testing.T) {
	h, err := NewFixtureHandler(FixtureOpts{Rows: 3, Now: fixtureNow})
	if err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	router := NewBasicRouter()
	router.Handler(h)
	srv := NewServer(ln.Addr().String(), router, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/users/")
	if err != nil {
		t.Fatalf("GET /users/ failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
