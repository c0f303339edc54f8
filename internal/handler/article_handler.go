package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"haven/internal/domain"
	"haven/internal/middleware"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ArticleHandler struct {
	articleRepo  *repository.ArticleRepository
	userRepo     *repository.UserRepository
	reactionRepo *repository.ReactionRepository
	viewRepo     *repository.ArticleViewRepository
	notifSvc     *service.NotificationService
}

func NewArticleHandler(articleRepo *repository.ArticleRepository, userRepo *repository.UserRepository, reactionRepo *repository.ReactionRepository, viewRepo *repository.ArticleViewRepository, notifSvc *service.NotificationService) *ArticleHandler {
	return &ArticleHandler{articleRepo: articleRepo, userRepo: userRepo, reactionRepo: reactionRepo, viewRepo: viewRepo, notifSvc: notifSvc}
}

type ArticleRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description"`
	Body        string   `json:"body" binding:"required"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	Published   bool     `json:"published"`
}

// makeSlug builds a unique slug from the title. The random suffix keeps
// same-titled articles apart.
func makeSlug(title string) string {
	s := slug.Make(title)
	if len(s) > 240 {
		s = s[:240]
	}
	return s + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "author lookup failed"})
		return
	}
	a := &models.Article{
		Slug:        makeSlug(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		ImageURL:    req.ImageURL,
		AuthorID:    author.ID,
		Published:   req.Published,
	}
	if err := h.articleRepo.Create(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if len(req.Tags) > 0 {
		if err := h.articleRepo.ReplaceTags(a, tagModels(req.Tags)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "tag update failed"})
			return
		}
	}
	h.notifSvc.NotifyArticleCreated(c.Request.Context(), a, author)
	a.Author = *author
	c.JSON(http.StatusCreated, gin.H{"article": a})
}

func (h *ArticleHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.articleRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "articles": list})
}

func (h *ArticleHandler) Get(c *gin.Context) {
	a, ok := h.lookup(c)
	if !ok {
		return
	}
	// Logged-in readers count toward the author's view stats; the author's
	// own opens do not.
	if viewerID := middleware.GetUserID(c); viewerID != 0 && viewerID != a.AuthorID {
		_ = h.viewRepo.Record(a.ID, viewerID)
	}
	likes, dislikes, _ := h.reactionRepo.ArticleCounts(a.ID)
	c.JSON(http.StatusOK, gin.H{"article": a, "likes": likes, "dislikes": dislikes})
}

func (h *ArticleHandler) Update(c *gin.Context) {
	a, ok := h.lookup(c)
	if !ok {
		return
	}
	if a.AuthorID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own articles"})
		return
	}
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.Title = req.Title
	a.Description = req.Description
	a.Body = req.Body
	a.ImageURL = req.ImageURL
	a.Published = req.Published
	if err := h.articleRepo.Update(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if req.Tags != nil {
		if err := h.articleRepo.ReplaceTags(a, tagModels(req.Tags)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "tag update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"article": a})
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	a, ok := h.lookup(c)
	if !ok {
		return
	}
	if a.AuthorID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own articles"})
		return
	}
	if err := h.articleRepo.Delete(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// Like toggles a like; liking clears a prior dislike. The author is
// notified unless they reacted to their own article.
func (h *ArticleHandler) Like(c *gin.Context) {
	h.react(c, domain.ReactionLike)
}

func (h *ArticleHandler) Dislike(c *gin.Context) {
	h.react(c, domain.ReactionDislike)
}

func (h *ArticleHandler) react(c *gin.Context, kind string) {
	a, ok := h.lookup(c)
	if !ok {
		return
	}
	actor, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	removed, err := h.reactionRepo.ReactToArticle(a.ID, actor.ID, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reaction failed"})
		return
	}
	if !removed {
		h.notifSvc.NotifyArticleReaction(actor, a, kind)
	}
	likes, dislikes, _ := h.reactionRepo.ArticleCounts(a.ID)
	c.JSON(http.StatusOK, gin.H{"slug": a.Slug, "likes": likes, "dislikes": dislikes, "removed": removed})
}

func (h *ArticleHandler) ListTags(c *gin.Context) {
	tags, err := h.articleRepo.ListTags()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *ArticleHandler) lookup(c *gin.Context) (*models.Article, bool) {
	a, err := h.articleRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
		}
		return nil, false
	}
	return a, true
}

func tagModels(names []string) []models.Tag {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tags = append(tags, models.Tag{Name: name, Slug: slug.Make(name)})
	}
	return tags
}
