package repository

import (
	"haven/internal/models"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(a *models.Article) error {
	return r.db.Create(a).Error
}

func (r *ArticleRepository) GetBySlug(slug string) (*models.Article, error) {
	var a models.Article
	err := r.db.Preload("Author").Preload("Tags").Where("slug = ?", slug).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArticleRepository) List(limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Preload("Author").Preload("Tags").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ArticleRepository) ListByAuthor(authorID uint, limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Preload("Author").Preload("Tags").Where("author_id = ?", authorID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ArticleRepository) Update(a *models.Article) error {
	return r.db.Save(a).Error
}

// Delete soft-deletes the article.
func (r *ArticleRepository) Delete(a *models.Article) error {
	return r.db.Delete(a).Error
}

// ReplaceTags swaps the article's tag set, creating missing tags by slug.
func (r *ArticleRepository) ReplaceTags(a *models.Article, tags []models.Tag) error {
	for i := range tags {
		if err := r.db.Where("slug = ?", tags[i].Slug).FirstOrCreate(&tags[i]).Error; err != nil {
			return err
		}
	}
	return r.db.Model(a).Association("Tags").Replace(tags)
}

func (r *ArticleRepository) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("name").Find(&tags).Error
	return tags, err
}
