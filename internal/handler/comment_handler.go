package handler

import (
	"errors"
	"net/http"
	"strconv"

	"haven/internal/domain"
	"haven/internal/middleware"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentRepo  *repository.CommentRepository
	articleRepo  *repository.ArticleRepository
	userRepo     *repository.UserRepository
	reactionRepo *repository.ReactionRepository
	notifSvc     *service.NotificationService
}

func NewCommentHandler(commentRepo *repository.CommentRepository, articleRepo *repository.ArticleRepository, userRepo *repository.UserRepository, reactionRepo *repository.ReactionRepository, notifSvc *service.NotificationService) *CommentHandler {
	return &CommentHandler{commentRepo: commentRepo, articleRepo: articleRepo, userRepo: userRepo, reactionRepo: reactionRepo, notifSvc: notifSvc}
}

type CommentRequest struct {
	Body     string   `json:"body" binding:"required"`
	Mentions []string `json:"mentions"`
}

// Create posts a comment (or a thread reply when :id is present). Mentioned
// usernames are resolved first; an unknown mention rejects the whole comment.
func (h *CommentHandler) Create(c *gin.Context) {
	a, ok := h.lookupArticle(c)
	if !ok {
		return
	}
	var parentID *uint
	if raw := c.Param("id"); raw != "" {
		parent, ok := h.lookupComment(c)
		if !ok {
			return
		}
		if parent.ArticleID != a.ID {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment does not belong to this article"})
			return
		}
		parentID = &parent.ID
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	mentioned, err := h.notifSvc.ResolveMentions(req.Mentions)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	comment := &models.Comment{
		ArticleID: a.ID,
		AuthorID:  author.ID,
		ParentID:  parentID,
		Body:      req.Body,
	}
	if err := h.commentRepo.Create(comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	h.notifSvc.NotifyComment(comment, a, author)
	h.notifSvc.NotifyMentions(author, mentioned, a)
	comment.Author = *author
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) List(c *gin.Context) {
	a, ok := h.lookupArticle(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.commentRepo.ListByArticle(a.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "comments": list})
}

// Thread lists the replies below a comment, with the parent included.
func (h *CommentHandler) Thread(c *gin.Context) {
	if _, ok := h.lookupArticle(c); !ok {
		return
	}
	parent, ok := h.lookupComment(c)
	if !ok {
		return
	}
	replies, err := h.commentRepo.ListThread(parent.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": parent, "count": len(replies), "replies": replies})
}

func (h *CommentHandler) Update(c *gin.Context) {
	if _, ok := h.lookupArticle(c); !ok {
		return
	}
	comment, ok := h.lookupComment(c)
	if !ok {
		return
	}
	if comment.AuthorID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own comments"})
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment.Body = req.Body
	if err := h.commentRepo.Update(comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if _, ok := h.lookupArticle(c); !ok {
		return
	}
	comment, ok := h.lookupComment(c)
	if !ok {
		return
	}
	if comment.AuthorID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own comments"})
		return
	}
	if err := h.commentRepo.Delete(comment.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "the comment has been deleted"})
}

// Like toggles a like on a comment and notifies its author.
func (h *CommentHandler) Like(c *gin.Context) {
	h.react(c, domain.ReactionLike)
}

func (h *CommentHandler) Dislike(c *gin.Context) {
	h.react(c, domain.ReactionDislike)
}

func (h *CommentHandler) react(c *gin.Context, kind string) {
	if _, ok := h.lookupArticle(c); !ok {
		return
	}
	comment, ok := h.lookupComment(c)
	if !ok {
		return
	}
	actor, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	removed, err := h.reactionRepo.ReactToComment(comment.ID, actor.ID, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reaction failed"})
		return
	}
	if !removed && kind == domain.ReactionLike {
		h.notifSvc.NotifyCommentLiked(actor, comment)
	}
	likes, dislikes, _ := h.reactionRepo.CommentCounts(comment.ID)
	c.JSON(http.StatusOK, gin.H{"comment_id": comment.ID, "likes": likes, "dislikes": dislikes, "removed": removed})
}

func (h *CommentHandler) lookupArticle(c *gin.Context) (*models.Article, bool) {
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

func (h *CommentHandler) lookupComment(c *gin.Context) (*models.Comment, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return nil, false
	}
	comment, err := h.commentRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment with this ID doesn't exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "comment lookup failed"})
		}
		return nil, false
	}
	return comment, true
}
