package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_favorite" json:"article_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}
