package models

import "time"

// Violation is a reader's report against an article. Reports start pending
// and are resolved in bulk per article by a moderator decision.
type Violation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArticleID   uint      `gorm:"not null;index" json:"-"`
	ReporterID  uint      `gorm:"not null" json:"-"`
	Type        string    `gorm:"size:100;not null" json:"type"`
	Status      string    `gorm:"size:20;not null;default:pending" json:"status"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Article  Article `gorm:"foreignKey:ArticleID" json:"article"`
	Reporter User    `gorm:"foreignKey:ReporterID" json:"reporter"`
}

func (Violation) TableName() string {
	return "violations"
}
