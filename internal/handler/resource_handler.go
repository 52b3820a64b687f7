package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/permission"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

type ResourceHandler struct {
	resourceService service.ResourceService
	maxUploadBytes  int64
}

func NewResourceHandler(resourceService service.ResourceService, maxUploadBytes int64) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// ListChildren godoc
// @Summary      List a folder
// @Description  Lists the items directly inside a folder that the caller may view, folders first. Omit parentId for the root.
// @Tags         resources
// @Produce      json
// @Param        parentId query string false "Folder ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ResourceResponse}
// @Failure      400 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /resources [get]
func (h *ResourceHandler) ListChildren(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	parentID, err := parseOptionalUUID(c.Query("parentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid parent ID")
		return
	}

	items, err := h.resourceService.ListChildren(c.Request.Context(), actor, parentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, items)
}

// GetItem godoc
// @Summary      Get a resource item
// @Tags         resources
// @Produce      json
// @Param        id path string true "Item ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ResourceResponse}
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /resources/{id} [get]
func (h *ResourceHandler) GetItem(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "item ID")
	if !ok {
		return
	}

	item, err := h.resourceService.GetItem(c.Request.Context(), actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, item)
}

// Breadcrumb godoc
// @Summary      Folder breadcrumb
// @Description  Returns the path from the root down to the folder
// @Tags         resources
// @Produce      json
// @Param        id path string true "Folder ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.BreadcrumbEntry}
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /resources/{id}/breadcrumb [get]
func (h *ResourceHandler) Breadcrumb(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "folder ID")
	if !ok {
		return
	}

	path, err := h.resourceService.Breadcrumb(c.Request.Context(), actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, path)
}

// CreateFolder godoc
// @Summary      Create a folder
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateFolderRequest true "Folder"
// @Success      201 {object} response.SuccessResponse{data=dto.ResourceResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /resources/folders [post]
func (h *ResourceHandler) CreateFolder(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	folder, err := h.resourceService.CreateFolder(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, folder)
}

// Rename godoc
// @Summary      Rename an item
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID (UUID)"
// @Param        request body dto.RenameResourceRequest true "New name"
// @Success      200 {object} response.SuccessResponse{data=dto.ResourceResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /resources/{id} [patch]
func (h *ResourceHandler) Rename(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "item ID")
	if !ok {
		return
	}

	var req dto.RenameResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	item, err := h.resourceService.Rename(c.Request.Context(), actor, id, req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, item)
}

// Delete godoc
// @Summary      Delete an item
// @Description  Deletes a file with its blob, or an empty folder
// @Tags         resources
// @Param        id path string true "Item ID (UUID)"
// @Success      204
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Folder is not empty"
// @Security     BearerAuth
// @Router       /resources/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "item ID")
	if !ok {
		return
	}

	if err := h.resourceService.Delete(c.Request.Context(), actor, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadFile godoc
// @Summary      Upload a file
// @Tags         resources
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "File"
// @Param        parentId formData string false "Folder ID (UUID)"
// @Param        accessLevel formData string false "public, learner, lead or admin"
// @Success      201 {object} response.SuccessResponse{data=dto.ResourceResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /resources/files [post]
func (h *ResourceHandler) UploadFile(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	// Checked before the body is read so a refused upload never streams.
	if !permission.CanManage(actor.Role) {
		response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "You do not have permission to upload files")
		return
	}

	limitBody(c, h.maxUploadBytes+multipartOverhead)
	header, data, err := readFormFile(c, "file")
	if err != nil {
		if isBodyTooLarge(err) {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "File exceeds the maximum upload size")
			return
		}
		sendFormFileError(c, "file", err)
		return
	}

	parentID, err := parseOptionalUUID(c.PostForm("parentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid parent ID")
		return
	}

	item, err := h.resourceService.UploadFile(c.Request.Context(), actor, &dto.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		ParentID:    parentID,
		AccessLevel: domain.AccessLevel(c.PostForm("accessLevel")),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, item)
}

// DownloadURL godoc
// @Summary      Get a download URL
// @Description  Returns a short-lived presigned URL for a file
// @Tags         resources
// @Produce      json
// @Param        id path string true "File ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DownloadResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /resources/{id}/download [get]
func (h *ResourceHandler) DownloadURL(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "file ID")
	if !ok {
		return
	}

	download, err := h.resourceService.DownloadURL(c.Request.Context(), actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, download)
}
