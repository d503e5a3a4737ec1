package service

import (
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
)

// DownloadService authorizes and accounts design file downloads. The
// grant record is the authorization checked on every request; its
// counter and expiry are independent of the file's own limits.
type DownloadService struct {
	grants      repository.OrderDesignFileRepository
	designFiles repository.DesignFileRepository
	now         func() time.Time
}

// NewDownloadService creates a download service.
func NewDownloadService(grants repository.OrderDesignFileRepository, designFiles repository.DesignFileRepository) *DownloadService {
	return &DownloadService{grants: grants, designFiles: designFiles, now: time.Now}
}

// Authorize validates the access token and returns the grant with its
// file loaded. Unknown tokens, expired grants and exhausted download
// limits each map to a distinct sentinel error.
func (s *DownloadService) Authorize(token string) (*models.OrderDesignFile, error) {
	grant, err := s.grants.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if grant == nil || grant.DesignFile == nil {
		return nil, ErrGrantNotFound
	}

	now := s.now()
	if grant.ExpiresAt != nil && now.After(*grant.ExpiresAt) {
		return nil, ErrGrantExpired
	}
	file := grant.DesignFile
	if !file.IsActive {
		return nil, ErrGrantExpired
	}
	if file.ExpiresAt != nil && now.After(*file.ExpiresAt) {
		return nil, ErrGrantExpired
	}
	if grant.MaxDownloads > 0 && grant.DownloadCount >= grant.MaxDownloads {
		return nil, ErrGrantLimitReached
	}
	if file.MaxDownloads > 0 && file.DownloadCount >= file.MaxDownloads {
		return nil, ErrGrantLimitReached
	}
	return grant, nil
}

// RegisterDownload bumps the grant and file counters after a served
// download. Counter failures are logged, not surfaced; the customer
// already has the bytes.
func (s *DownloadService) RegisterDownload(grant *models.OrderDesignFile) {
	if err := s.grants.IncrementDownloadCount(grant.ID); err != nil {
		logger.Errorw("grant_counter_update_failed", "grant_id", grant.ID, "error", err)
	}
	if err := s.designFiles.IncrementDownloadCount(grant.DesignFileID); err != nil {
		logger.Errorw("file_counter_update_failed", "design_file_id", grant.DesignFileID, "error", err)
	}
}
