package models

import "time"

// Rating is one user's score for an article, 1 to 5. Re-rating updates the
// existing row.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_rating" json:"article_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

// RatingSummary aggregates all ratings on one article.
type RatingSummary struct {
	Average float64     `json:"avg_rating"`
	Total   int64       `json:"total_users"`
	ByValue map[int]int `json:"each_rating"`
}
