package repository

import (
	"errors"

	"haven/internal/models"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow creates the edge follower→followed if it does not exist.
func (r *FollowRepository) Follow(followerID, followedID uint) error {
	var existing models.Follow
	err := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.Follow{FollowerID: followerID, FollowedID: followedID}).Error
}

func (r *FollowRepository) Unfollow(followerID, followedID uint) error {
	return r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

func (r *FollowRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).Count(&count).Error
	return count > 0, err
}

// Followers returns the users following userID.
func (r *FollowRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).Find(&users).Error
	return users, err
}

// Following returns the users userID follows.
func (r *FollowRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).Find(&users).Error
	return users, err
}
