package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/application/media"
)

// UploadHandler handles image uploads to the blob store
type UploadHandler struct {
	BaseHandler
	uploadService *media.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *media.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload godoc
// @Summary      Upload an image
// @Description  JPEG, PNG, WEBP or GIF. JPEG and PNG files also get a thumbnail.
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image"
// @Param        folder formData string false "Folder, defaults to general"
// @Success      201 {object} dto.Response{data=media.UploadResult}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      415 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.HandleError(c, media.ErrFileTooLarge)
			return
		}
		h.HandleError(c, media.ErrFileRequired)
		return
	}
	if header.Size > h.uploadService.MaxSize() {
		h.HandleError(c, media.ErrFileTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.uploadService.MaxSize()+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.uploadService.Upload(c.Request.Context(), tenantID, media.UploadInput{
		Folder:   c.PostForm("folder"),
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Delete godoc
// @Summary      Delete an uploaded image
// @Description  The URL must belong to the caller's tenant
// @Tags         upload
// @Security     BearerAuth
// @Param        url query string true "Public URL returned by the upload"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /upload [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	if err := h.uploadService.Delete(c.Request.Context(), tenantID, c.Query("url")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
