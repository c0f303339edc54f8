package models

import (
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Body        string         `gorm:"type:text" json:"body"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Published   bool           `gorm:"default:false" json:"published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Author User  `gorm:"foreignKey:AuthorID" json:"author"`
	Tags   []Tag `gorm:"many2many:article_tags" json:"tags"`
}

func (Article) TableName() string {
	return "articles"
}

// ArticleView records one reader having opened an article. One row per
// reader per article; readers never see these, they only feed author stats.
type ArticleView struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_article_view" json:"article_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_article_view" json:"user_id"`
	CreatedAt time.Time `json:"-"`
}

func (ArticleView) TableName() string {
	return "article_views"
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"size:28;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	CreatedAt time.Time `json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
