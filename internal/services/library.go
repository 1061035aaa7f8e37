// Library endpoints of the MyFoil REST API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

// LibraryService implements [LibraryAPI] over a [Client].
type LibraryService struct {
	client *Client
}

var _ LibraryAPI = (*LibraryService)(nil)

// NewLibraryService creates a LibraryService using the given client.
func NewLibraryService(client *Client) *LibraryService {
	return &LibraryService{client: client}
}

// FetchPage retrieves one page from /api/library/paged.
func (s *LibraryService) FetchPage(ctx context.Context, page, perPage int, sortBy, order string) (*LibraryPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(perPage))
	if sortBy != "" {
		q.Set("sort_by", sortBy)
		q.Set("order", order)
	}

	resp, err := s.client.Get(ctx, "/api/library/paged?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return decodePage(resp)
}

// FetchLegacy retrieves the whole library from /api/library. The legacy
// endpoint answers either {items: [...]} or a bare array; both decode to a
// single page with no cursor.
func (s *LibraryService) FetchLegacy(ctx context.Context) (*LibraryPage, error) {
	resp, err := s.client.Get(ctx, "/api/library")
	if err != nil {
		return nil, err
	}
	return decodePage(resp)
}

// Search runs a paged search over the entire dataset via
// /api/library/search/paged.
func (s *LibraryService) Search(ctx context.Context, page, perPage int, query SearchQuery) (*LibraryPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(perPage))
	if query.Query != "" {
		q.Set("q", query.Query)
	}
	if query.Genre != "" {
		q.Set("genre", query.Genre)
	}
	if query.Tag != "" {
		q.Set("tag", query.Tag)
	}
	if query.Missing {
		q.Set("missing", "true")
	}
	if query.Pending {
		q.Set("pending", "true")
	}
	if query.DLC {
		q.Set("dlc", "true")
	}
	if query.Redundant {
		q.Set("redundant", "true")
	}

	resp, err := s.client.Get(ctx, "/api/library/search/paged?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return decodePage(resp)
}

// AppInfo retrieves one game's full detail from /api/app_info/{id}.
func (s *LibraryService) AppInfo(ctx context.Context, titleID string) (*models.Game, error) {
	resp, err := s.client.Get(ctx, "/api/app_info/"+url.PathEscape(titleID))
	if err != nil {
		return nil, err
	}
	game, err := decodeInto[models.Game](resp)
	if err != nil {
		return nil, err
	}
	if game.ID == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrGameNotFound, titleID)
	}
	return &game, nil
}

// IgnorePrefs retrieves /api/wishlist/ignore: every stored ignore
// preference keyed by title id. Keys are uppercased so lookups are
// case-insensitive. A missing or malformed payload yields an empty map,
// never an error the UI would have to special-case.
func (s *LibraryService) IgnorePrefs(ctx context.Context) (map[string]models.IgnorePrefs, error) {
	resp, err := s.client.Get(ctx, "/api/wishlist/ignore")
	if err != nil {
		return nil, err
	}
	raw, err := decodeInto[map[string]models.IgnorePrefs](resp)
	if err != nil {
		return map[string]models.IgnorePrefs{}, nil
	}

	prefs := make(map[string]models.IgnorePrefs, len(raw))
	for id, p := range raw {
		prefs[strings.ToUpper(id)] = p
	}
	return prefs, nil
}

// SetIgnore posts one ignore flag to /api/library/ignore/{titleId}.
func (s *LibraryService) SetIgnore(ctx context.Context, titleID string, req IgnoreRequest) error {
	resp, err := s.client.Post(ctx, "/api/library/ignore/"+url.PathEscape(titleID), req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &result); err == nil && !result.Success && result.Error != "" {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, result.Error)
	}
	return nil
}

// decodePage normalizes every library payload shape seen in the wild:
// enveloped or raw, {items, pagination} or a bare game array.
func decodePage(resp *Response) (*LibraryPage, error) {
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	page, err := DecodeEnvelope[LibraryPage](resp.Body)
	if err == nil && page.Items != nil {
		return &page, nil
	}

	games, arrErr := DecodeEnvelope[[]models.Game](resp.Body)
	if arrErr == nil && games != nil {
		return &LibraryPage{Items: games}, nil
	}

	if err != nil {
		return nil, err
	}
	// Shape was valid but empty; treat as an empty page.
	return &LibraryPage{Items: []models.Game{}}, nil
}
