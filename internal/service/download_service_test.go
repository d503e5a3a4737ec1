package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDownloadTest(t *testing.T) (*DownloadService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:download_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.DesignFile{}, &models.OrderDesignFile{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewDownloadService(
		repository.NewOrderDesignFileRepository(db),
		repository.NewDesignFileRepository(db),
	)
	return svc, db
}

func createGrant(t *testing.T, db *gorm.DB, token string, mutate func(file *models.DesignFile, grant *models.OrderDesignFile)) *models.OrderDesignFile {
	t.Helper()
	file := models.DesignFile{
		ProductID: 1,
		FileName:  "pack.zip",
		FileURL:   "products/test/pack.zip",
		IsActive:  true,
	}
	grant := models.OrderDesignFile{
		OrderID: 1,
		Token:   token,
	}
	if mutate != nil {
		mutate(&file, &grant)
	}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("create design file failed: %v", err)
	}
	grant.DesignFileID = file.ID
	if err := db.Create(&grant).Error; err != nil {
		t.Fatalf("create grant failed: %v", err)
	}
	return &grant
}

func TestAuthorizeValidGrant(t *testing.T) {
	svc, db := setupDownloadTest(t)
	createGrant(t, db, "tok-valid", nil)

	grant, err := svc.Authorize("tok-valid")
	if err != nil {
		t.Fatalf("authorize error: %v", err)
	}
	if grant.DesignFile == nil || grant.DesignFile.FileName != "pack.zip" {
		t.Fatalf("expected the file to be loaded, got %+v", grant.DesignFile)
	}
}

func TestAuthorizeUnknownToken(t *testing.T) {
	svc, _ := setupDownloadTest(t)
	if _, err := svc.Authorize("tok-missing"); !errors.Is(err, ErrGrantNotFound) {
		t.Fatalf("expected ErrGrantNotFound, got %v", err)
	}
}

func TestAuthorizeExpiry(t *testing.T) {
	svc, db := setupDownloadTest(t)
	past := time.Now().Add(-time.Hour)

	createGrant(t, db, "tok-grant-expired", func(_ *models.DesignFile, grant *models.OrderDesignFile) {
		grant.ExpiresAt = &past
	})
	createGrant(t, db, "tok-file-expired", func(file *models.DesignFile, _ *models.OrderDesignFile) {
		file.ExpiresAt = &past
	})
	createGrant(t, db, "tok-file-inactive", func(file *models.DesignFile, _ *models.OrderDesignFile) {
		file.IsActive = false
	})

	for _, token := range []string{"tok-grant-expired", "tok-file-expired", "tok-file-inactive"} {
		if _, err := svc.Authorize(token); !errors.Is(err, ErrGrantExpired) {
			t.Fatalf("%s: expected ErrGrantExpired, got %v", token, err)
		}
	}
}

func TestAuthorizeExpiryUsesInjectedClock(t *testing.T) {
	svc, db := setupDownloadTest(t)
	deadline := time.Now().Add(time.Hour)
	createGrant(t, db, "tok-clock", func(_ *models.DesignFile, grant *models.OrderDesignFile) {
		grant.ExpiresAt = &deadline
	})

	if _, err := svc.Authorize("tok-clock"); err != nil {
		t.Fatalf("grant must be valid before the deadline: %v", err)
	}
	svc.now = func() time.Time { return deadline.Add(time.Minute) }
	if _, err := svc.Authorize("tok-clock"); !errors.Is(err, ErrGrantExpired) {
		t.Fatalf("expected ErrGrantExpired past the deadline, got %v", err)
	}
}

func TestAuthorizeDownloadLimits(t *testing.T) {
	svc, db := setupDownloadTest(t)

	createGrant(t, db, "tok-grant-limit", func(_ *models.DesignFile, grant *models.OrderDesignFile) {
		grant.MaxDownloads = 3
		grant.DownloadCount = 3
	})
	createGrant(t, db, "tok-file-limit", func(file *models.DesignFile, _ *models.OrderDesignFile) {
		file.MaxDownloads = 5
		file.DownloadCount = 5
	})
	// Zero means unlimited, a high counter alone never blocks.
	createGrant(t, db, "tok-unlimited", func(_ *models.DesignFile, grant *models.OrderDesignFile) {
		grant.DownloadCount = 1000
	})

	for _, token := range []string{"tok-grant-limit", "tok-file-limit"} {
		if _, err := svc.Authorize(token); !errors.Is(err, ErrGrantLimitReached) {
			t.Fatalf("%s: expected ErrGrantLimitReached, got %v", token, err)
		}
	}
	if _, err := svc.Authorize("tok-unlimited"); err != nil {
		t.Fatalf("unlimited grant must authorize: %v", err)
	}
}

func TestRegisterDownloadIncrementsBothCounters(t *testing.T) {
	svc, db := setupDownloadTest(t)
	createGrant(t, db, "tok-count", nil)

	grant, err := svc.Authorize("tok-count")
	if err != nil {
		t.Fatalf("authorize error: %v", err)
	}
	svc.RegisterDownload(grant)
	svc.RegisterDownload(grant)

	var reloadedGrant models.OrderDesignFile
	if err := db.First(&reloadedGrant, grant.ID).Error; err != nil {
		t.Fatalf("reload grant failed: %v", err)
	}
	if reloadedGrant.DownloadCount != 2 {
		t.Fatalf("expected grant download_count 2, got %d", reloadedGrant.DownloadCount)
	}
	var reloadedFile models.DesignFile
	if err := db.First(&reloadedFile, grant.DesignFileID).Error; err != nil {
		t.Fatalf("reload file failed: %v", err)
	}
	if reloadedFile.DownloadCount != 2 {
		t.Fatalf("expected file download_count 2, got %d", reloadedFile.DownloadCount)
	}
}
