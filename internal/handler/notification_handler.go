package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"haven/internal/middleware"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type NotificationHandler struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	notifSvc *service.NotificationService
	log      *logrus.Logger
}

func NewNotificationHandler(repo *repository.NotificationRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService, log *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{repo: repo, userRepo: userRepo, notifSvc: notifSvc, log: log}
}

// notificationView is the wire shape of one inbox entry.
type notificationView struct {
	ID          uint              `json:"id"`
	Actor       models.EntityRef  `json:"actor"`
	Verb        string            `json:"verb"`
	Target      *models.EntityRef `json:"target"`
	Description string            `json:"description"`
	Data        datatypes.JSON    `json:"data,omitempty"`
	Unread      bool              `json:"unread"`
	Sent        bool              `json:"sent"`
	Timestamp   time.Time         `json:"timestamp"`
}

func viewsOf(list []models.Notification) []notificationView {
	out := make([]notificationView, len(list))
	for i := range list {
		n := &list[i]
		v := notificationView{
			ID:          n.ID,
			Actor:       n.Actor(),
			Verb:        n.Verb,
			Description: n.Description,
			Data:        n.Data,
			Unread:      n.Unread,
			Sent:        n.Sent,
			Timestamp:   n.CreatedAt,
		}
		if target, ok := n.Target(); ok {
			v.Target = &target
		}
		out[i] = v
	}
	return out
}

func (h *NotificationHandler) respond(c *gin.Context, list []models.Notification, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "notifications": viewsOf(list)})
}

// All lists every live notification. Listing through the generic feed marks
// everything sent first, so the unsent view empties as a side effect.
func (h *NotificationHandler) All(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.repo.MarkAllSent(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	list, err := h.repo.ListAll(userID)
	h.respond(c, list, err)
}

// Unread lists unread notifications, marking everything sent first like All.
func (h *NotificationHandler) Unread(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.repo.MarkAllSent(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	list, err := h.repo.ListUnread(userID)
	h.respond(c, list, err)
}

func (h *NotificationHandler) Read(c *gin.Context) {
	list, err := h.repo.ListRead(middleware.GetUserID(c))
	h.respond(c, list, err)
}

// Unsent is the view clients poll for genuinely new activity; it has no side
// effect.
func (h *NotificationHandler) Unsent(c *gin.Context) {
	list, err := h.repo.ListUnsent(middleware.GetUserID(c))
	h.respond(c, list, err)
}

func (h *NotificationHandler) Sent(c *gin.Context) {
	list, err := h.repo.ListSent(middleware.GetUserID(c))
	h.respond(c, list, err)
}

// MarkRead flips one notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	err = h.repo.MarkRead(uint(id), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification has been read"})
}

// DeleteAll soft-deletes the requester's whole inbox and reports the count.
func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	count, err := h.repo.SoftDeleteAll(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d notifications deleted", count), "count": count})
}

// Subscribe opts the user into email notifications.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	h.setSubscription(c, true, "you have successfully subscribed to our notifications")
}

// Unsubscribe opts the user out of email notifications.
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	h.setSubscription(c, false, "you have successfully unsubscribed from our notifications")
}

func (h *NotificationHandler) setSubscription(c *gin.Context, subscribed bool, message string) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if err := h.notifSvc.SetSubscription(c.Request.Context(), u, subscribed); err != nil {
		h.log.WithError(err).Error("subscription update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subscription_status": subscribed,
		"message":             message,
	})
}

// SubscriptionStatus returns the current email opt-in flag.
func (h *NotificationHandler) SubscriptionStatus(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription_status": u.IsSubscribed})
}
