package handler

import (
	"net/http"
	"strconv"

	"haven/internal/middleware"
	"haven/internal/repository"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves authors their per-article readership numbers.
type StatsHandler struct {
	articleRepo  *repository.ArticleRepository
	viewRepo     *repository.ArticleViewRepository
	commentRepo  *repository.CommentRepository
	reactionRepo *repository.ReactionRepository
	ratingRepo   *repository.RatingRepository
}

func NewStatsHandler(articleRepo *repository.ArticleRepository, viewRepo *repository.ArticleViewRepository, commentRepo *repository.CommentRepository, reactionRepo *repository.ReactionRepository, ratingRepo *repository.RatingRepository) *StatsHandler {
	return &StatsHandler{
		articleRepo:  articleRepo,
		viewRepo:     viewRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		ratingRepo:   ratingRepo,
	}
}

type articleStats struct {
	Slug          string  `json:"slug"`
	Title         string  `json:"title"`
	ViewCount     int64   `json:"view_count"`
	CommentCount  int64   `json:"comment_count"`
	LikeCount     int64   `json:"like_count"`
	DislikeCount  int64   `json:"dislike_count"`
	AverageRating float64 `json:"average_rating"`
}

// List returns one stats row per article the requester has authored.
func (h *StatsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	articles, err := h.articleRepo.ListByAuthor(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	stats := make([]articleStats, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		row := articleStats{Slug: a.Slug, Title: a.Title}
		if row.ViewCount, err = h.viewRepo.Count(a.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
			return
		}
		if row.CommentCount, err = h.commentRepo.CountByArticle(a.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
			return
		}
		if row.LikeCount, row.DislikeCount, err = h.reactionRepo.ArticleCounts(a.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
			return
		}
		summary, err := h.ratingRepo.Summary(a.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
			return
		}
		row.AverageRating = summary.Average
		stats = append(stats, row)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(stats), "stats": stats})
}
