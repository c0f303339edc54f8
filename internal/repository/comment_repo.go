package repository

import (
	"haven/internal/models"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(c *models.Comment) error {
	return r.db.Create(c).Error
}

func (r *CommentRepository) GetByID(id uint) (*models.Comment, error) {
	var c models.Comment
	err := r.db.Preload("Author").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByArticle returns top-level comments for an article, oldest first.
func (r *CommentRepository) ListByArticle(articleID uint, limit, offset int) ([]models.Comment, error) {
	var list []models.Comment
	err := r.db.Preload("Author").
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Order("created_at").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListThread returns the replies below a parent comment, oldest first.
func (r *CommentRepository) ListThread(parentID uint) ([]models.Comment, error) {
	var list []models.Comment
	err := r.db.Preload("Author").Where("parent_id = ?", parentID).
		Order("created_at").Find(&list).Error
	return list, err
}

// CountByArticle counts every comment on the article, replies included.
func (r *CommentRepository) CountByArticle(articleID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Comment{}).
		Where("article_id = ?", articleID).Count(&n).Error
	return n, err
}

func (r *CommentRepository) Update(c *models.Comment) error {
	return r.db.Save(c).Error
}

func (r *CommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
