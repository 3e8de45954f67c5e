package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// PresignUpload returns a signed URL the client PUTs the file to.
func (h *MediaHandler) PresignUpload(c *gin.Context) {
	var request services.PresignUploadRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	upload, err := h.mediaService.PresignUpload(c.Request.Context(), &request, shared.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "media", upload.Media.ID.Hex())
	utils.CreatedResponse(c, "Upload URL generated successfully", upload)
}

func (h *MediaHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	media, err := h.mediaService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Media retrieved successfully", media)
}

func (h *MediaHandler) DownloadURL(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	url, err := h.mediaService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Download URL generated successfully", url)
}

func (h *MediaHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.mediaService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "media", id.Hex())
	utils.SuccessResponse(c, "Media removed successfully", nil)
}

func (h *MediaHandler) List(c *gin.Context) {
	uploadedBy, err := shared.QueryID(c, "uploaded_by")
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	filter := interfaces.MediaFilter{Folder: c.Query("folder"), UploadedBy: uploadedBy}
	media, total, err := h.mediaService.List(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Media retrieved successfully", media, params, total)
}
