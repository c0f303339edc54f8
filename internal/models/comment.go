package models

import "time"

// Comment belongs to an article. ParentID is set for thread replies.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;index" json:"article_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"author"`
}

func (Comment) TableName() string {
	return "comments"
}
