package repository

import (
	"errors"

	"haven/internal/models"

	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Rate records value for the user, overwriting any previous rating on the
// same article.
func (r *RatingRepository) Rate(articleID, userID uint, value int) error {
	var existing models.Rating
	err := r.db.Where("article_id = ? AND user_id = ?", articleID, userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&models.Rating{ArticleID: articleID, UserID: userID, Value: value}).Error
	}
	if err != nil {
		return err
	}
	existing.Value = value
	return r.db.Save(&existing).Error
}

func (r *RatingRepository) GetByUser(articleID, userID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("article_id = ? AND user_id = ?", articleID, userID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Summary aggregates the article's ratings: average, voter count and a
// per-value breakdown.
func (r *RatingRepository) Summary(articleID uint) (*models.RatingSummary, error) {
	summary := &models.RatingSummary{ByValue: make(map[int]int)}

	var rows []struct {
		Value int
		N     int
	}
	err := r.db.Model(&models.Rating{}).Select("value, COUNT(*) AS n").
		Where("article_id = ?", articleID).Group("value").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	var sum int64
	for _, row := range rows {
		summary.ByValue[row.Value] = row.N
		summary.Total += int64(row.N)
		sum += int64(row.Value) * int64(row.N)
	}
	if summary.Total > 0 {
		summary.Average = float64(sum) / float64(summary.Total)
	}
	return summary, nil
}
