package handler

import (
	"errors"
	"fmt"
	"net/http"

	"haven/internal/domain"
	"haven/internal/middleware"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ViolationHandler takes reader reports against articles and lets moderators
// resolve them.
type ViolationHandler struct {
	violationRepo *repository.ViolationRepository
	articleRepo   *repository.ArticleRepository
	userRepo      *repository.UserRepository
	mail          *mailer.Mailer
	log           *logrus.Logger
}

func NewViolationHandler(violationRepo *repository.ViolationRepository, articleRepo *repository.ArticleRepository, userRepo *repository.UserRepository, mail *mailer.Mailer, log *logrus.Logger) *ViolationHandler {
	return &ViolationHandler{violationRepo: violationRepo, articleRepo: articleRepo, userRepo: userRepo, mail: mail, log: log}
}

type ViolationRequest struct {
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// Types lists the accepted report categories with their labels.
func (h *ViolationHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": domain.ViolationTypes})
}

// Report files a violation against a published article. Authors cannot
// report their own work. The reporter gets an acknowledgement email.
func (h *ViolationHandler) Report(c *gin.Context) {
	a, err := h.articleRepo.GetBySlug(c.Param("slug"))
	if err != nil || !a.Published {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "article does not exist"})
		return
	}
	reporter, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if reporter.ID == a.AuthorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot report your own article"})
		return
	}
	var req ViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidViolationType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%q is not a valid violation type", req.Type)})
		return
	}
	v := &models.Violation{
		ArticleID:   a.ID,
		ReporterID:  reporter.ID,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := h.violationRepo.Create(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	if err := h.mail.SendTemplate(c.Request.Context(), mailer.TemplateReportReceived, reporter.Email, "Report received", map[string]string{
		"Username":    reporter.Username,
		"ArticleSlug": a.Slug,
		"Author":      a.Author.Username,
		"Category":    req.Type,
	}); err != nil {
		h.log.WithError(err).Warn("report acknowledgement email failed")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your report has been received. You will receive a confirmation email shortly."})
}

// List returns the moderation queue: pending reports, one per article.
func (h *ViolationHandler) List(c *gin.Context) {
	list, err := h.violationRepo.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "violations": list})
}

// Process applies a moderator decision to every report on the article.
// Approving takes the article down and notifies its author by email.
func (h *ViolationHandler) Process(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Decision != domain.DecisionApprove && req.Decision != domain.DecisionReject {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("this violation decision %q is not valid", req.Decision)})
		return
	}
	a, err := h.articleRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
		}
		return
	}
	count, err := h.violationRepo.CountByArticle(a.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "this article does not have any pending violation reports"})
		return
	}

	status := domain.ViolationRejected
	if req.Decision == domain.DecisionApprove {
		status = domain.ViolationApproved
		if err := h.mail.SendTemplate(c.Request.Context(), mailer.TemplateViolationAction, a.Author.Email, "Violation attention", map[string]string{
			"Username":     a.Author.Username,
			"ArticleTitle": a.Title,
		}); err != nil {
			h.log.WithError(err).Warn("violation takedown email failed")
		}
		if err := h.articleRepo.Delete(a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "takedown failed"})
			return
		}
	}
	if _, err := h.violationRepo.SetStatusByArticle(a.ID, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("You have %s this violation.", status)})
}
