package admin

import (
	"strconv"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

// ListDesignFiles returns every file of a product.
func (h *Handler) ListDesignFiles(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 64)
	if err != nil || productID == 0 {
		response.BadRequest(c, "product_id is required")
		return
	}
	files, err := h.designFiles.ListByProduct(uint(productID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, files)
}

// UploadDesignFile stores a new deliverable asset for a product. The
// request is multipart: the file plus variant metadata fields.
func (h *Handler) UploadDesignFile(c *gin.Context) {
	productID, err := strconv.ParseUint(c.PostForm("product_id"), 10, 64)
	if err != nil || productID == 0 {
		response.BadRequest(c, "product_id is required")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer src.Close()

	maxDownloads, _ := strconv.Atoi(c.PostForm("max_downloads"))
	var expiresAt *time.Time
	if raw := c.PostForm("expires_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "expires_at must be RFC3339")
			return
		}
		expiresAt = &parsed
	}

	file, err := h.designFiles.Upload(service.UploadDesignFileInput{
		ProductID:        uint(productID),
		FileName:         fileHeader.Filename,
		MimeType:         fileHeader.Header.Get("Content-Type"),
		Content:          src,
		IsColorVariant:   c.PostForm("is_color_variant") == "true",
		ColorVariantName: c.PostForm("color_variant_name"),
		ColorVariantHex:  c.PostForm("color_variant_hex"),
		ExpiresAt:        expiresAt,
		MaxDownloads:     maxDownloads,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, file)
}

// UploadOrderDesignFile stores a bespoke asset produced for one order
// item, ready to be granted on manual completion.
func (h *Handler) UploadOrderDesignFile(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	itemID, err := strconv.ParseUint(c.PostForm("order_item_id"), 10, 64)
	if err != nil || itemID == 0 {
		response.BadRequest(c, "order_item_id is required")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer src.Close()

	order, err := h.orders.GetByID(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	for i := range order.Items {
		if order.Items[i].ID != uint(itemID) {
			continue
		}
		file, err := h.designFiles.UploadForOrder(order, &order.Items[i], c.PostForm("color_name"), service.UploadDesignFileInput{
			FileName: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Content:  src,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.Created(c, file)
		return
	}
	response.BadRequest(c, "order item does not belong to this order")
}

// SetDesignFileActive toggles a file's availability.
func (h *Handler) SetDesignFileActive(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid design file id")
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "active flag is required")
		return
	}
	file, err := h.designFiles.SetActive(id, req.Active)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, file)
}

// DeleteDesignFile removes a file and its stored object.
func (h *Handler) DeleteDesignFile(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid design file id")
		return
	}
	if err := h.designFiles.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
