// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/services"
)

// MockLibrary is a test double for [services.LibraryAPI]. Each hook can be
// set per test; unset hooks return empty results.
type MockLibrary struct {
	FetchPageFunc   func(ctx context.Context, page, perPage int, sortBy, order string) (*services.LibraryPage, error)
	FetchLegacyFunc func(ctx context.Context) (*services.LibraryPage, error)
	SearchFunc      func(ctx context.Context, page, perPage int, q services.SearchQuery) (*services.LibraryPage, error)
	AppInfoFunc     func(ctx context.Context, titleID string) (*models.Game, error)
	IgnoreFunc      func(ctx context.Context) (map[string]models.IgnorePrefs, error)
	SetIgnoreFunc   func(ctx context.Context, titleID string, req services.IgnoreRequest) error

	SetIgnoreCalls []services.IgnoreRequest
}

func (m *MockLibrary) FetchPage(ctx context.Context, page, perPage int, sortBy, order string) (*services.LibraryPage, error) {
	if m.FetchPageFunc != nil {
		return m.FetchPageFunc(ctx, page, perPage, sortBy, order)
	}
	return &services.LibraryPage{Items: []models.Game{}}, nil
}

func (m *MockLibrary) FetchLegacy(ctx context.Context) (*services.LibraryPage, error) {
	if m.FetchLegacyFunc != nil {
		return m.FetchLegacyFunc(ctx)
	}
	return &services.LibraryPage{Items: []models.Game{}}, nil
}

func (m *MockLibrary) Search(ctx context.Context, page, perPage int, q services.SearchQuery) (*services.LibraryPage, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, page, perPage, q)
	}
	return &services.LibraryPage{Items: []models.Game{}}, nil
}

func (m *MockLibrary) AppInfo(ctx context.Context, titleID string) (*models.Game, error) {
	if m.AppInfoFunc != nil {
		return m.AppInfoFunc(ctx, titleID)
	}
	return nil, errors.New("not found")
}

func (m *MockLibrary) IgnorePrefs(ctx context.Context) (map[string]models.IgnorePrefs, error) {
	if m.IgnoreFunc != nil {
		return m.IgnoreFunc(ctx)
	}
	return map[string]models.IgnorePrefs{}, nil
}

func (m *MockLibrary) SetIgnore(ctx context.Context, titleID string, req services.IgnoreRequest) error {
	m.SetIgnoreCalls = append(m.SetIgnoreCalls, req)
	if m.SetIgnoreFunc != nil {
		return m.SetIgnoreFunc(ctx, titleID, req)
	}
	return nil
}

// MockJobs is a test double for [services.JobsAPI].
type MockJobs struct {
	JobsFunc    func(ctx context.Context) (*services.JobsSnapshot, error)
	CancelFunc  func(ctx context.Context, jobID string) error
	CleanupFunc func(ctx context.Context) error

	CancelCalls []string
}

func (m *MockJobs) Jobs(ctx context.Context) (*services.JobsSnapshot, error) {
	if m.JobsFunc != nil {
		return m.JobsFunc(ctx)
	}
	return &services.JobsSnapshot{Jobs: []models.Job{}}, nil
}

func (m *MockJobs) CancelJob(ctx context.Context, jobID string) error {
	m.CancelCalls = append(m.CancelCalls, jobID)
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, jobID)
	}
	return nil
}

func (m *MockJobs) CleanupJobs(ctx context.Context) error {
	if m.CleanupFunc != nil {
		return m.CleanupFunc(ctx)
	}
	return nil
}

// MockSystem is a test double for [services.SystemAPI].
type MockSystem struct {
	SystemInfoFunc func(ctx context.Context) (*models.SystemInfo, error)
	WishlistFunc   func(ctx context.Context) ([]models.WishlistItem, error)
	AddFunc        func(ctx context.Context, titleID string) error
	RemoveFunc     func(ctx context.Context, id int64) error

	AddCalls []string
}

func (m *MockSystem) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	if m.SystemInfoFunc != nil {
		return m.SystemInfoFunc(ctx)
	}
	return &models.SystemInfo{BuildVersion: "test"}, nil
}

func (m *MockSystem) Wishlist(ctx context.Context) ([]models.WishlistItem, error) {
	if m.WishlistFunc != nil {
		return m.WishlistFunc(ctx)
	}
	return []models.WishlistItem{}, nil
}

func (m *MockSystem) AddToWishlist(ctx context.Context, titleID string) error {
	m.AddCalls = append(m.AddCalls, titleID)
	if m.AddFunc != nil {
		return m.AddFunc(ctx, titleID)
	}
	return nil
}

func (m *MockSystem) RemoveFromWishlist(ctx context.Context, id int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SequenceRoundTripper serves queued responses in order, repeating the
// last one once the queue is exhausted.
type SequenceRoundTripper struct {
	responses []*http.Response
	errs      []error
	calls     int
}

func NewSequenceRoundTripper(responses []*http.Response, errs []error) *SequenceRoundTripper {
	return &SequenceRoundTripper{responses: responses, errs: errs}
}

func (s *SequenceRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	i := s.calls
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	s.calls++
	return s.responses[i], s.errs[i]
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
