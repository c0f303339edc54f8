package repository

import (
	"haven/internal/domain"
	"haven/internal/models"

	"gorm.io/gorm"
)

type ViolationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

// Create stores a report in the pending state regardless of incoming flags.
func (r *ViolationRepository) Create(v *models.Violation) error {
	v.Status = domain.ViolationPending
	return r.db.Create(v).Error
}

// ListPending returns pending reports for the moderation queue, one per
// article (the earliest report stands in for the article's pile).
func (r *ViolationRepository) ListPending() ([]models.Violation, error) {
	sub := r.db.Model(&models.Violation{}).
		Select("MIN(id)").
		Where("status = ?", domain.ViolationPending).
		Group("article_id")
	var list []models.Violation
	err := r.db.Preload("Article").Preload("Reporter").
		Where("id IN (?)", sub).
		Order("article_id").
		Find(&list).Error
	return list, err
}

// CountByArticle counts every report on the article, any status.
func (r *ViolationRepository) CountByArticle(articleID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Violation{}).
		Where("article_id = ?", articleID).Count(&n).Error
	return n, err
}

// SetStatusByArticle resolves every report on the article at once.
func (r *ViolationRepository) SetStatusByArticle(articleID uint, status string) (int64, error) {
	res := r.db.Model(&models.Violation{}).
		Where("article_id = ?", articleID).
		Update("status", status)
	return res.RowsAffected, res.Error
}
