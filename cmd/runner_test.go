package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/engine"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/services"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	tu "github.com/fernandodimas/myfoil-tui/internal/testing"
)

func filtersOf(query string) engine.Filters {
	return engine.Filters{Query: query}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			library := &tu.MockLibrary{}
			jobsAPI := &tu.MockJobs{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Library: library,
				Jobs:    jobsAPI,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.library != library {
				t.Error("expected library to be set")
			}
			if runner.jobsAPI != jobsAPI {
				t.Error("expected jobs API to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.config.Server.BaseURL == "" {
				t.Error("expected default base URL")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"k": "v"}, false); err != nil {
			t.Fatalf("writeJSON: %v", err)
		}
		if got := output.String(); got != "{\"k\":\"v\"}\n" {
			t.Errorf("writeJSON output = %q", got)
		}
	})
}

func TestLibraryTableOutput(t *testing.T) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output})

	games := []models.Game{
		{ID: "0100AAA", Name: "Some Game", SizeFormatted: "1.2 GB",
			ReleaseDate: "2020-03-20", StatusColor: models.StatusGreen},
		{ID: "0100BBB", Name: "Other Game", SizeFormatted: "600 MB",
			ReleaseDate: "2021-10-08", StatusColor: models.StatusOrange},
	}
	runner.renderGamesTable(games)

	got := output.String()
	for _, want := range []string{"0100AAA", "Some Game", "20/03/2020", "0100BBB", "600 MB"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
}

func TestCollectGamesSearchesWhenFiltered(t *testing.T) {
	searched := false
	lib := &tu.MockLibrary{
		SearchFunc: func(_ context.Context, p, _ int, q services.SearchQuery) (*services.LibraryPage, error) {
			searched = true
			if q.Query != "zelda" {
				t.Errorf("query = %q, want zelda", q.Query)
			}
			return &services.LibraryPage{
				Items:      []models.Game{{ID: "0100AAA", Name: "Zelda", HasBase: true}},
				Pagination: &models.Pagination{Page: 1, TotalItems: 1},
			}, nil
		},
	}
	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Library: lib})

	eng, err := runner.newEngine("name-asc")
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	snap, err := runner.collectGames(context.Background(), eng,
		filtersOf("zelda"), 1, true)
	if err != nil {
		t.Fatalf("collectGames: %v", err)
	}
	if !searched {
		t.Error("active filters must use the search endpoint")
	}
	if len(snap.Filtered) != 1 {
		t.Errorf("filtered = %d, want 1", len(snap.Filtered))
	}
}

func TestCollectGamesPagesWhenUnfiltered(t *testing.T) {
	pages := 0
	lib := &tu.MockLibrary{
		FetchPageFunc: func(_ context.Context, p, _ int, _, _ string) (*services.LibraryPage, error) {
			pages++
			return &services.LibraryPage{
				Items:      []models.Game{{ID: "0100AAA", Name: "Game", HasBase: true}},
				Pagination: &models.Pagination{Page: p, TotalItems: 2, HasNext: p == 1},
			}, nil
		},
	}
	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Library: lib})

	eng, err := runner.newEngine("name-asc")
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	snap, err := runner.collectGames(context.Background(), eng, filtersOf(""), 1, true)
	if err != nil {
		t.Fatalf("collectGames: %v", err)
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2", pages)
	}
	if len(snap.Filtered) != 2 {
		t.Errorf("filtered = %d, want 2", len(snap.Filtered))
	}
}

func TestNewEngineRejectsBadSort(t *testing.T) {
	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
	if _, err := runner.newEngine("sideways"); err == nil {
		t.Error("expected error for malformed sort spec")
	}
}
