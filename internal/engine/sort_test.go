package engine

import (
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/models"
)

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		input   string
		want    SortSpec
		wantErr bool
	}{
		{input: "name-asc", want: SortSpec{SortByName, OrderAsc}},
		{input: "release-desc", want: SortSpec{SortByRelease, OrderDesc}},
		{input: "size-asc", want: SortSpec{SortBySize, OrderAsc}},
		{input: "status-desc", want: SortSpec{SortByStatus, OrderDesc}},
		{input: "name", wantErr: true},
		{input: "banana-asc", wantErr: true},
		{input: "name-sideways", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseSortSpec(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func names(games []models.Game) []string {
	out := make([]string, len(games))
	for i := range games {
		out[i] = games[i].Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortGames(t *testing.T) {
	sample := func() []models.Game {
		return []models.Game{
			{Name: "zelda", ID: "0100C", Size: 300, ReleaseDate: "2017-03-03", AddedAt: "2024-02-01T10:00:00Z", StatusScore: 2},
			{Name: "Animal Crossing", ID: "0100A", Size: 100, ReleaseDate: "2020-03-20", AddedAt: "2024-01-01T10:00:00Z", StatusScore: 0},
			{Name: "Metroid", ID: "0100B", Size: 200, ReleaseDate: "", LatestReleaseDate: "2021-10-08", AddedAt: "", StatusScore: 1},
		}
	}

	t.Run("name ascending is case-insensitive", func(t *testing.T) {
		games := sample()
		SortGames(games, SortSpec{SortByName, OrderAsc})
		want := []string{"Animal Crossing", "Metroid", "zelda"}
		if got := names(games); !equalStrings(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("descending reverses ascending", func(t *testing.T) {
		asc := sample()
		desc := sample()
		SortGames(asc, SortSpec{SortByName, OrderAsc})
		SortGames(desc, SortSpec{SortByName, OrderDesc})
		for i := range asc {
			if asc[i].Name != desc[len(desc)-1-i].Name {
				t.Fatalf("desc is not the reverse of asc: %v vs %v", names(asc), names(desc))
			}
		}
	})

	t.Run("release falls back to latest known date", func(t *testing.T) {
		games := sample()
		SortGames(games, SortSpec{SortByRelease, OrderAsc})
		want := []string{"zelda", "Animal Crossing", "Metroid"}
		if got := names(games); !equalStrings(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("missing added date sorts first ascending", func(t *testing.T) {
		games := sample()
		SortGames(games, SortSpec{SortByAdded, OrderAsc})
		if games[0].Name != "Metroid" {
			t.Errorf("got %v, want Metroid first", names(games))
		}
	})

	t.Run("size is numeric", func(t *testing.T) {
		games := sample()
		SortGames(games, SortSpec{SortBySize, OrderDesc})
		want := []string{"zelda", "Metroid", "Animal Crossing"}
		if got := names(games); !equalStrings(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("status sorts by score", func(t *testing.T) {
		games := sample()
		SortGames(games, SortSpec{SortByStatus, OrderAsc})
		want := []string{"Animal Crossing", "Metroid", "zelda"}
		if got := names(games); !equalStrings(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("stable on equal keys", func(t *testing.T) {
		games := []models.Game{
			{Name: "a", ID: "1", Size: 50},
			{Name: "b", ID: "2", Size: 50},
			{Name: "c", ID: "3", Size: 50},
		}
		SortGames(games, SortSpec{SortBySize, OrderAsc})
		want := []string{"a", "b", "c"}
		if got := names(games); !equalStrings(got, want) {
			t.Errorf("stable sort reordered equal keys: %v", got)
		}
	})
}

func TestSortSpecReversed(t *testing.T) {
	spec := SortSpec{SortByName, OrderAsc}
	if got := spec.Reversed(); got.Order != OrderDesc {
		t.Errorf("got %v", got)
	}
	if got := spec.Reversed().Reversed(); got != spec {
		t.Errorf("double reverse changed the spec: %v", got)
	}
}
