package repository

import (
	"errors"

	"haven/internal/models"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add favorites an article for a user. Returns true when a new row was
// created (repeat favoriting is a no-op).
func (r *FavoriteRepository) Add(articleID, userID uint) (bool, error) {
	var existing models.Favorite
	err := r.db.Where("article_id = ? AND user_id = ?", articleID, userID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, r.db.Create(&models.Favorite{ArticleID: articleID, UserID: userID}).Error
}

func (r *FavoriteRepository) Remove(articleID, userID uint) error {
	return r.db.Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(&models.Favorite{}).Error
}

func (r *FavoriteRepository) ListByUser(userID uint, limit, offset int) ([]models.Favorite, error) {
	var list []models.Favorite
	err := r.db.Preload("Article").Preload("Article.Author").Preload("Article.Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
