package handler

import (
	"errors"
	"net/http"

	"haven/internal/domain"
	"haven/internal/middleware"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RatingHandler struct {
	ratingRepo  *repository.RatingRepository
	articleRepo *repository.ArticleRepository
	userRepo    *repository.UserRepository
	notifSvc    *service.NotificationService
}

func NewRatingHandler(ratingRepo *repository.RatingRepository, articleRepo *repository.ArticleRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService) *RatingHandler {
	return &RatingHandler{ratingRepo: ratingRepo, articleRepo: articleRepo, userRepo: userRepo, notifSvc: notifSvc}
}

type RateRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// Rate scores an article 1-5. Authors cannot rate their own articles.
// Re-rating overwrites the previous score.
func (h *RatingHandler) Rate(c *gin.Context) {
	a, ok := h.lookup(c)
	if !ok {
		return
	}
	actor, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if actor.ID == a.AuthorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot rate your own article"})
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Rating < domain.RatingMin || req.Rating > domain.RatingMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}
	if err := h.ratingRepo.Rate(a.ID, actor.ID, req.Rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rating failed"})
		return
	}
	h.notifSvc.NotifyArticleRated(actor, a, req.Rating)
	c.JSON(http.StatusCreated, gin.H{
		"slug":    a.Slug,
		"rating":  req.Rating,
		"message": "you have successfully rated this article",
	})
}

// Mine returns the requester's own rating of the article, if any.
func (h *RatingHandler) Mine(c *gin.Context) {
	a, ok := h.lookup(c)
	if !ok {
		return
	}
	rating, err := h.ratingRepo.GetByUser(a.ID, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"slug": a.Slug, "rating": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rating lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": a.Slug, "rating": rating.Value})
}

// Summary returns aggregate ratings for the article.
func (h *RatingHandler) Summary(c *gin.Context) {
	a, ok := h.lookup(c)
	if !ok {
		return
	}
	summary, err := h.ratingRepo.Summary(a.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *RatingHandler) lookup(c *gin.Context) (*models.Article, bool) {
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
