// Jobs, wishlist and system-info endpoints of the MyFoil REST API
package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

// SystemService implements [JobsAPI] and [SystemAPI] over a [Client].
type SystemService struct {
	client *Client
}

var (
	_ JobsAPI   = (*SystemService)(nil)
	_ SystemAPI = (*SystemService)(nil)
)

// NewSystemService creates a SystemService using the given client.
func NewSystemService(client *Client) *SystemService {
	return &SystemService{client: client}
}

// Jobs retrieves /api/system/jobs: the current job list plus titledb state.
func (s *SystemService) Jobs(ctx context.Context) (*JobsSnapshot, error) {
	resp, err := s.client.Get(ctx, "/api/system/jobs")
	if err != nil {
		return nil, err
	}
	snapshot, err := decodeInto[JobsSnapshot](resp)
	if err != nil {
		return nil, err
	}
	if snapshot.Jobs == nil {
		snapshot.Jobs = []models.Job{}
	}
	return &snapshot, nil
}

// CancelJob posts /api/system/jobs/{id}/cancel.
func (s *SystemService) CancelJob(ctx context.Context, jobID string) error {
	resp, err := s.client.Post(ctx, "/api/system/jobs/"+url.PathEscape(jobID)+"/cancel", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

// CleanupJobs posts /api/system/jobs/cleanup, clearing finished jobs and
// failing stuck ones.
func (s *SystemService) CleanupJobs(ctx context.Context) error {
	resp, err := s.client.Post(ctx, "/api/system/jobs/cleanup", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

// SystemInfo retrieves /api/system/info.
func (s *SystemService) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	resp, err := s.client.Get(ctx, "/api/system/info")
	if err != nil {
		return nil, err
	}
	info, err := decodeInto[models.SystemInfo](resp)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Wishlist retrieves /api/wishlist.
func (s *SystemService) Wishlist(ctx context.Context) ([]models.WishlistItem, error) {
	resp, err := s.client.Get(ctx, "/api/wishlist")
	if err != nil {
		return nil, err
	}
	return decodeInto[[]models.WishlistItem](resp)
}

// AddToWishlist posts a title onto the wishlist.
func (s *SystemService) AddToWishlist(ctx context.Context, titleID string) error {
	body := map[string]string{"title_id": titleID}
	resp, err := s.client.Post(ctx, "/api/wishlist", body)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

// RemoveFromWishlist deletes one wishlist entry by its row id.
func (s *SystemService) RemoveFromWishlist(ctx context.Context, id int64) error {
	resp, err := s.client.Delete(ctx, fmt.Sprintf("/api/wishlist/%d", id))
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
