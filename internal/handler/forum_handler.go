package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

type ForumHandler struct {
	forumService service.ForumService
}

func NewForumHandler(forumService service.ForumService) *ForumHandler {
	return &ForumHandler{
		forumService: forumService,
	}
}

// ListPosts godoc
// @Summary      List forum posts
// @Description  Returns the newest forum posts
// @Tags         forum
// @Produce      json
// @Param        limit query int false "Maximum number of posts (default 50, max 100)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.PostResponse}
// @Failure      401 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /forum/posts [get]
func (h *ForumHandler) ListPosts(c *gin.Context) {
	posts, err := h.forumService.ListPosts(c.Request.Context(), getQueryInt(c, "limit", 0))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, posts)
}

// GetThread godoc
// @Summary      Get a forum thread
// @Description  Returns a post with its replies assembled into a reply tree
// @Tags         forum
// @Produce      json
// @Param        postId path string true "Post ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /forum/posts/{postId} [get]
func (h *ForumHandler) GetThread(c *gin.Context) {
	postID, ok := parseUUIDParam(c, "postId", "post ID")
	if !ok {
		return
	}

	thread, err := h.forumService.GetThread(c.Request.Context(), postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, thread)
}

// CreatePost godoc
// @Summary      Create a forum post
// @Tags         forum
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePostRequest true "Post"
// @Success      201 {object} response.SuccessResponse{data=dto.PostResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /forum/posts [post]
func (h *ForumHandler) CreatePost(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	post, err := h.forumService.CreatePost(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, post)
}

// CreateReply godoc
// @Summary      Reply to a post
// @Description  Adds a reply to a post, optionally nested under another reply of the same post
// @Tags         forum
// @Accept       json
// @Produce      json
// @Param        postId path string true "Post ID (UUID)"
// @Param        request body dto.CreateReplyRequest true "Reply"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentNode}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /forum/posts/{postId}/replies [post]
func (h *ForumHandler) CreateReply(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	postID, ok := parseUUIDParam(c, "postId", "post ID")
	if !ok {
		return
	}

	var req dto.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	reply, err := h.forumService.CreateReply(c.Request.Context(), actor, postID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, reply)
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Deletes a post and all of its replies. Moderators only.
// @Tags         forum
// @Param        postId path string true "Post ID (UUID)"
// @Success      204
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /forum/posts/{postId} [delete]
func (h *ForumHandler) DeletePost(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	postID, ok := parseUUIDParam(c, "postId", "post ID")
	if !ok {
		return
	}

	if err := h.forumService.DeleteItem(c.Request.Context(), actor, service.ForumItemPost, postID, nil); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteReply godoc
// @Summary      Delete a reply
// @Description  Deletes a single reply. Its own replies are kept. Moderators only.
// @Tags         forum
// @Param        postId path string true "Post ID (UUID)"
// @Param        replyId path string true "Reply ID (UUID)"
// @Success      204
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /forum/posts/{postId}/replies/{replyId} [delete]
func (h *ForumHandler) DeleteReply(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	postID, ok := parseUUIDParam(c, "postId", "post ID")
	if !ok {
		return
	}
	replyID, ok := parseUUIDParam(c, "replyId", "reply ID")
	if !ok {
		return
	}

	if err := h.forumService.DeleteItem(c.Request.Context(), actor, service.ForumItemReply, replyID, &postID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
