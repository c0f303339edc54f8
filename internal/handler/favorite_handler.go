package handler

import (
	"errors"
	"net/http"
	"strconv"

	"haven/internal/middleware"
	"haven/internal/repository"
	"haven/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FavoriteHandler struct {
	favRepo     *repository.FavoriteRepository
	articleRepo *repository.ArticleRepository
	userRepo    *repository.UserRepository
	notifSvc    *service.NotificationService
}

func NewFavoriteHandler(favRepo *repository.FavoriteRepository, articleRepo *repository.ArticleRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService) *FavoriteHandler {
	return &FavoriteHandler{favRepo: favRepo, articleRepo: articleRepo, userRepo: userRepo, notifSvc: notifSvc}
}

// Add favorites an article. Favoriting your own article is rejected; the
// article author is notified on a fresh favorite only.
func (h *FavoriteHandler) Add(c *gin.Context) {
	a, err := h.articleRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
		}
		return
	}
	actor, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if a.AuthorID == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot favorite your own article"})
		return
	}
	created, err := h.favRepo.Add(a.ID, actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "favorite failed"})
		return
	}
	if created {
		h.notifSvc.NotifyArticleFavorited(actor, a)
	}
	c.JSON(http.StatusOK, gin.H{"slug": a.Slug, "favorited": true})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	a, err := h.articleRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
		}
		return
	}
	userID := middleware.GetUserID(c)
	if a.AuthorID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot unfavorite your own article"})
		return
	}
	if err := h.favRepo.Remove(a.ID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unfavorite failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": a.Slug, "favorited": false})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	favs, err := h.favRepo.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	articles := make([]interface{}, len(favs))
	for i := range favs {
		articles[i] = favs[i].Article
	}
	c.JSON(http.StatusOK, gin.H{"count": len(articles), "articles": articles})
}
