package handler

import (
	"net/http"
	"strings"

	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.Storage.ListPosts(c.Request.Context(), currentViewer(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost зберігає пост; автор береться з токена, а не з тіла запиту
func (h *Handler) CreatePost(c *gin.Context) {
	var req models.NewPost
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &models.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if err := forms.ValidateNewPost(req); err != nil {
		h.respondError(c, err)
		return
	}

	post := &models.Post{
		AuthorID: currentViewer(c).ID,
		Content:  strings.TrimSpace(req.Content),
		Type:     req.Type,
	}
	if req.Type == models.PostPoll {
		q := strings.TrimSpace(*req.PollQuestion)
		post.PollQuestion = &q
	}

	if err := h.Storage.InsertPost(c.Request.Context(), post); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

type pollOptionsRequest struct {
	Texts []string `json:"texts"`
}

func (h *Handler) AddPollOptions(c *gin.Context) {
	var req pollOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &models.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if err := forms.ValidateOptions(req.Texts); err != nil {
		h.respondError(c, err)
		return
	}
	texts := make([]string, 0, len(req.Texts))
	for _, t := range req.Texts {
		texts = append(texts, strings.TrimSpace(t))
	}

	options, err := h.Storage.InsertPollOptions(c.Request.Context(), c.Param("id"), currentViewer(c).ID, texts)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, options)
}

type voteRequest struct {
	OptionID string `json:"option_id"`
}

func (h *Handler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OptionID == "" {
		h.respondError(c, &models.ValidationError{Field: "option_id", Message: "option is required"})
		return
	}
	err := h.Storage.CastVote(c.Request.Context(), c.Param("id"), req.OptionID, currentViewer(c).ID, h.AllowVoteRevision)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Like(c *gin.Context) {
	if err := h.Storage.Like(c.Request.Context(), c.Param("id"), currentViewer(c).ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Unlike(c *gin.Context) {
	if err := h.Storage.Unlike(c.Request.Context(), c.Param("id"), currentViewer(c).ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
