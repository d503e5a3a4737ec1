package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds size limit")
	ErrInvalidPath    = errors.New("invalid storage path")
	ErrObjectNotFound = errors.New("storage object not found")
)

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// LocalStore persists design files on the local disk under a root
// directory. Paths follow orders/{orderNumber}/{productSlug}/{color?}/{file}.
type LocalStore struct {
	rootDir     string
	maxSize     int64
	maxAttempts int
}

// NewLocalStore creates a store rooted at rootDir.
func NewLocalStore(rootDir string, maxSize int64, maxAttempts int) (*LocalStore, error) {
	rootDir = strings.TrimSpace(rootDir)
	if rootDir == "" {
		rootDir = "./data/files"
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	if maxAttempts <= 0 {
		maxAttempts = constants.StorageUploadMaxAttempts
	}
	return &LocalStore{rootDir: rootDir, maxSize: maxSize, maxAttempts: maxAttempts}, nil
}

// SanitizeSegment makes a value safe to use as a path segment.
func SanitizeSegment(value string) string {
	value = strings.TrimSpace(value)
	value = unsafePathChars.ReplaceAllString(value, "-")
	value = strings.Trim(value, "-.")
	if value == "" {
		value = "file"
	}
	return value
}

// DesignFilePath builds the storage path for an order delivery file.
// colorName is optional.
func DesignFilePath(orderNumber, productSlug, colorName, fileName string) string {
	segments := []string{"orders", SanitizeSegment(orderNumber), SanitizeSegment(productSlug)}
	if strings.TrimSpace(colorName) != "" {
		segments = append(segments, SanitizeSegment(colorName))
	}
	segments = append(segments, SanitizeSegment(fileName))
	return strings.Join(segments, "/")
}

// ProductFilePath builds the storage path for a catalog design file.
func ProductFilePath(productSlug, fileName string) string {
	return strings.Join([]string{"products", SanitizeSegment(productSlug), SanitizeSegment(fileName)}, "/")
}

// Save writes the content to the given relative path, retrying transient
// failures with exponential backoff capped at ten seconds.
func (s *LocalStore) Save(relPath string, content io.Reader) (int64, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return 0, err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return 0, fmt.Errorf("read upload content: %w", err)
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return 0, ErrFileTooLarge
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lastErr = writeFileAtomic(fullPath, data)
		if lastErr == nil {
			return int64(len(data)), nil
		}
		logger.Warnw("storage write retry",
			"path", relPath,
			"attempt", attempt,
			"error", lastErr.Error())
		if attempt < s.maxAttempts {
			time.Sleep(backoffDelay(attempt))
		}
	}
	return 0, fmt.Errorf("storage write failed after %d attempts: %w", s.maxAttempts, lastErr)
}

// Open opens a stored object for reading and seeking.
func (s *LocalStore) Open(relPath string) (*os.File, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return file, nil
}

// Stat returns size and modification time for a stored object.
func (s *LocalStore) Stat(relPath string) (int64, time.Time, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return 0, time.Time{}, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, time.Time{}, ErrObjectNotFound
		}
		return 0, time.Time{}, err
	}
	return info.Size(), info.ModTime(), nil
}

// Delete removes a stored object. Missing objects are not an error.
func (s *LocalStore) Delete(relPath string) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) resolve(relPath string) (string, error) {
	relPath = strings.TrimSpace(relPath)
	if relPath == "" {
		return "", ErrInvalidPath
	}
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.rootDir, cleaned), nil
}

func writeFileAtomic(fullPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	tmpPath := fullPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(constants.StorageUploadBaseBackoffSecs) * time.Second
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	cap := time.Duration(constants.StorageUploadBackoffCapSecs) * time.Second
	if delay > cap {
		delay = cap
	}
	return delay
}
