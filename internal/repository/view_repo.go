package repository

import (
	"haven/internal/models"

	"gorm.io/gorm"
)

type ArticleViewRepository struct {
	db *gorm.DB
}

func NewArticleViewRepository(db *gorm.DB) *ArticleViewRepository {
	return &ArticleViewRepository{db: db}
}

// Record stores that the user has opened the article. Repeat opens by the
// same reader keep a single row.
func (r *ArticleViewRepository) Record(articleID, userID uint) error {
	view := models.ArticleView{ArticleID: articleID, UserID: userID}
	return r.db.Where("article_id = ? AND user_id = ?", articleID, userID).
		FirstOrCreate(&view).Error
}

// Count returns the number of distinct readers of the article.
func (r *ArticleViewRepository) Count(articleID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.ArticleView{}).
		Where("article_id = ?", articleID).Count(&n).Error
	return n, err
}
