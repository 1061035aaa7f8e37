package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

func libraryServer(t *testing.T, handler http.HandlerFunc) (*LibraryService, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	svc := NewLibraryService(NewClient(ClientOpts{BaseURL: server.URL}))
	return svc, server.Close
}

func TestFetchPage(t *testing.T) {
	t.Run("Sends Paging and Sort Params", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/library/paged" {
				t.Errorf("path = %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("page") != "2" || q.Get("per_page") != "75" {
				t.Errorf("paging params = %v", q)
			}
			if q.Get("sort_by") != "name" || q.Get("order") != "asc" {
				t.Errorf("sort params = %v", q)
			}
			w.Write([]byte(`{"items":[{"id":"0100AAA","name":"Zelda"}],"pagination":{"page":2,"total_items":100,"has_next":true}}`))
		})
		defer closeFn()

		page, err := svc.FetchPage(context.Background(), 2, 75, "name", "asc")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].ID != "0100AAA" {
			t.Errorf("items = %v", page.Items)
		}
		if page.Pagination == nil || !page.Pagination.HasNext {
			t.Error("expected pagination cursor with has_next")
		}
	})

	t.Run("Omits Sort Params When Unset", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Has("sort_by") {
				t.Error("expected no sort_by param")
			}
			w.Write([]byte(`{"items":[]}`))
		})
		defer closeFn()

		if _, err := svc.FetchPage(context.Background(), 1, 75, "", ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		defer closeFn()

		_, err := svc.FetchPage(context.Background(), 1, 75, "", "")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestFetchLegacy(t *testing.T) {
	t.Run("Bare Array Response", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/library" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`[{"id":"0100AAA"},{"id":"0100BBB"}]`))
		})
		defer closeFn()

		page, err := svc.FetchLegacy(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 2 {
			t.Errorf("items = %d, want 2", len(page.Items))
		}
		if page.Pagination != nil {
			t.Error("legacy page must carry no cursor")
		}
	})

	t.Run("Enveloped Items Response", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":200,"success":true,"data":{"items":[{"id":"0100AAA"}]}}`))
		})
		defer closeFn()

		page, err := svc.FetchLegacy(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 1 {
			t.Errorf("items = %d, want 1", len(page.Items))
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("Encodes Every Active Criterion", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/library/search/paged" {
				t.Errorf("path = %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("q") != "zelda" || q.Get("genre") != "Adventure" {
				t.Errorf("criteria = %v", q)
			}
			if q.Get("missing") != "true" || q.Get("redundant") != "true" {
				t.Errorf("flags = %v", q)
			}
			if q.Has("pending") || q.Has("dlc") {
				t.Error("inactive flags must be omitted")
			}
			w.Write([]byte(`{"items":[]}`))
		})
		defer closeFn()

		_, err := svc.Search(context.Background(), 1, 75, SearchQuery{
			Query: "zelda", Genre: "Adventure", Missing: true, Redundant: true,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestAppInfo(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/app_info/0100AAA" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"id":"0100AAA","name":"Zelda","updates":[{"version":65536,"owned":true}]}`))
		})
		defer closeFn()

		game, err := svc.AppInfo(context.Background(), "0100AAA")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if game.Name != "Zelda" || len(game.Updates) != 1 {
			t.Errorf("game = %+v", game)
		}
	})

	t.Run("Empty Payload Means Not Found", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		defer closeFn()

		_, err := svc.AppInfo(context.Background(), "0100ZZZ")
		if !errors.Is(err, shared.ErrGameNotFound) {
			t.Errorf("expected ErrGameNotFound, got %v", err)
		}
	})
}

func TestIgnorePrefs(t *testing.T) {
	t.Run("Uppercases Title Keys", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/wishlist/ignore" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"0100aaa":{"updates":{"65536":true},"dlcs":{}}}`))
		})
		defer closeFn()

		prefs, err := svc.IgnorePrefs(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		p, ok := prefs["0100AAA"]
		if !ok {
			t.Fatalf("expected uppercased key, got %v", prefs)
		}
		if !p.Updates["65536"] {
			t.Error("expected update 65536 ignored")
		}
	})

	t.Run("Malformed Payload Yields Empty Map", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"surprise"`))
		})
		defer closeFn()

		prefs, err := svc.IgnorePrefs(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(prefs) != 0 {
			t.Errorf("prefs = %v, want empty", prefs)
		}
	})
}

func TestSetIgnore(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/library/ignore/0100AAA" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"success":true}`))
		})
		defer closeFn()

		err := svc.SetIgnore(context.Background(), "0100AAA",
			IgnoreRequest{Type: "update", ItemID: "65536", Ignored: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Application Error in 200 Body", func(t *testing.T) {
		svc, closeFn := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"error":"title not found"}`))
		})
		defer closeFn()

		err := svc.SetIgnore(context.Background(), "0100ZZZ",
			IgnoreRequest{Type: "dlc", ItemID: "0100ZZZ001", Ignored: true})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
