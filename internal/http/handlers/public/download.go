package public

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"

	"github.com/gin-gonic/gin"
)

// DownloadDesignFile serves a granted file as an attachment. The grant
// token is the authorization; missing or foreign tokens get 403, expired
// grants 410 and exhausted limits 429.
func (h *Handler) DownloadDesignFile(c *gin.Context) {
	h.serveGrantedFile(c, true)
}

// StreamDesignFile serves a granted file inline with HTTP range support
// so video previews can seek.
func (h *Handler) StreamDesignFile(c *gin.Context) {
	h.serveGrantedFile(c, false)
}

func (h *Handler) serveGrantedFile(c *gin.Context, asAttachment bool) {
	grant, err := h.downloads.Authorize(c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	file := grant.DesignFile

	content, err := h.designFiles.OpenContent(file)
	if err != nil {
		logger.Errorw("design_file_open_failed",
			"design_file_id", file.ID,
			"path", file.FileURL,
			"error", err)
		respondServiceError(c, err)
		return
	}
	defer content.Close()

	if file.MimeType != "" {
		c.Header("Content-Type", file.MimeType)
	}
	c.Header("Accept-Ranges", "bytes")
	if asAttachment {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(file.FileName)))
	} else {
		c.Header("Content-Disposition", "inline")
	}

	// ServeContent handles If-Range, partial content and 416 responses.
	http.ServeContent(c.Writer, c.Request, file.FileName, time.Time{}, content)

	// Range continuations of one playback session should not burn the
	// download budget; only count full requests and first chunks.
	if c.Request.Header.Get("Range") == "" || strings.HasPrefix(c.Request.Header.Get("Range"), "bytes=0-") {
		h.downloads.RegisterDownload(grant)
	}
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\n", "")
	if name == "" {
		name = "download"
	}
	return name
}
