package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"haven/internal/middleware"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/service"
	"haven/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	notifSvc   *service.NotificationService
	cloud      cloudinary.Client
}

func NewProfileHandler(userRepo *repository.UserRepository, followRepo *repository.FollowRepository, notifSvc *service.NotificationService, cloud cloudinary.Client) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo, followRepo: followRepo, notifSvc: notifSvc, cloud: cloud}
}

// List returns profiles excluding the requester.
func (h *ProfileHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := h.userRepo.ListExcluding(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	profiles := make([]models.Profile, len(users))
	for i := range users {
		following, _ := h.followRepo.IsFollowing(userID, users[i].ID)
		profiles[i] = users[i].Profile(following)
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}
	following, _ := h.followRepo.IsFollowing(middleware.GetUserID(c), u.ID)
	c.JSON(http.StatusOK, gin.H{"profile": u.Profile(following)})
}

type UpdateProfileRequest struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// Update edits the requester's own profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": u.Profile(false)})
}

// UploadAvatar stores a profile image on Cloudinary and saves its URL.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := middleware.GetUserID(c)
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()
	url, err := h.cloud.UploadImage(c.Request.Context(), file, "avatars", fmt.Sprintf("user_%d_%s", userID, uuid.NewString()[:8]))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	u.AvatarURL = url
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

// Follow creates the follow edge and notifies the followed user.
func (h *ProfileHandler) Follow(c *gin.Context) {
	target, ok := h.lookup(c)
	if !ok {
		return
	}
	me, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if me.ID == target.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot follow yourself"})
		return
	}
	if err := h.followRepo.Follow(me.ID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "follow failed"})
		return
	}
	h.notifSvc.NotifyFollow(me, target)
	c.JSON(http.StatusOK, gin.H{
		"profile": target.Profile(true),
		"message": fmt.Sprintf("You followed %s.", target.Username),
	})
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	target, ok := h.lookup(c)
	if !ok {
		return
	}
	me := middleware.GetUserID(c)
	if me == target.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot follow or unfollow yourself"})
		return
	}
	if err := h.followRepo.Unfollow(me, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unfollow failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile": target.Profile(false),
		"message": fmt.Sprintf("You unfollowed %s.", target.Username),
	})
}

func (h *ProfileHandler) Followers(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}
	users, err := h.followRepo.Followers(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "followers": profilesOf(users)})
}

func (h *ProfileHandler) Following(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}
	users, err := h.followRepo.Following(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "following": profilesOf(users)})
}

func (h *ProfileHandler) lookup(c *gin.Context) (*models.User, bool) {
	u, err := h.userRepo.GetByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		}
		return nil, false
	}
	return u, true
}

func profilesOf(users []models.User) []models.Profile {
	out := make([]models.Profile, len(users))
	for i := range users {
		out[i] = users[i].Profile(false)
	}
	return out
}
