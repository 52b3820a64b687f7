package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

type UserHandler struct {
	userService   service.UserService
	maxPhotoBytes int64
}

func NewUserHandler(userService service.UserService, maxPhotoBytes int64) *UserHandler {
	return &UserHandler{
		userService:   userService,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// GetMe godoc
// @Summary      Get my profile
// @Description  Returns the caller's profile, creating it with the volunteer role on first call
// @Tags         users
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      401 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetOrCreateProfile(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary      Update my profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateProfileRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      400 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, profile)
}

// UploadPhoto godoc
// @Summary      Upload my profile photo
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        photo formData file true "Image"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      413 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/photo [post]
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	limitBody(c, h.maxPhotoBytes+multipartOverhead)
	header, data, err := readFormFile(c, "photo")
	if err != nil {
		sendFormFileError(c, "photo", err)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	profile, err := h.userService.UploadProfilePhoto(c.Request.Context(), actor, data, mimeType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, profile)
}

// RefreshToken godoc
// @Summary      Refresh my token
// @Description  Issues a token whose role claim matches the stored profile
// @Tags         users
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.TokenResponse}
// @Security     BearerAuth
// @Router       /users/me/token [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	token, err := h.userService.RefreshToken(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, token)
}

// ListUsers godoc
// @Summary      List users
// @Description  Admins only
// @Tags         users
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.UserResponse}
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, users)
}

// SetRole godoc
// @Summary      Set a user's role
// @Description  Admins only. The user must refresh their token to pick up the new role claim.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        uid path string true "User ID"
// @Param        request body dto.SetRoleRequest true "Role"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{uid}/role [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	var req dto.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	profile, err := h.userService.SetUserRole(c.Request.Context(), actor, c.Param("uid"), req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, profile)
}

// SetAdvisoryBoard godoc
// @Summary      Set advisory board membership
// @Description  Admins only
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        uid path string true "User ID"
// @Param        request body dto.AdvisoryBoardRequest true "Membership"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{uid}/advisory-board [put]
func (h *UserHandler) SetAdvisoryBoard(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	var req dto.AdvisoryBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	profile, err := h.userService.SetAdvisoryBoardStatus(c.Request.Context(), actor, c.Param("uid"), *req.IsMember)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, profile)
}

// ListAdvisoryBoard godoc
// @Summary      List advisory board members
// @Tags         users
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.AdvisoryBoardMember}
// @Security     BearerAuth
// @Router       /advisory-board [get]
func (h *UserHandler) ListAdvisoryBoard(c *gin.Context) {
	members, err := h.userService.ListAdvisoryBoard(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, members)
}
