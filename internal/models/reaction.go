package models

import "time"

// ArticleReaction records a like or dislike on an article. One row per
// user/article pair; Kind flips when the user switches sides.
type ArticleReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_article_reaction" json:"article_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_article_reaction" json:"user_id"`
	Kind      string    `gorm:"size:10;not null" json:"kind"` // LIKE | DISLIKE
	CreatedAt time.Time `json:"created_at"`
}

func (ArticleReaction) TableName() string {
	return "article_reactions"
}

type CommentReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_reaction" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_reaction" json:"user_id"`
	Kind      string    `gorm:"size:10;not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentReaction) TableName() string {
	return "comment_reactions"
}
