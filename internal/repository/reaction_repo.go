package repository

import (
	"errors"

	"haven/internal/domain"
	"haven/internal/models"

	"gorm.io/gorm"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// ReactToArticle toggles a reaction. Reacting the same way twice removes the
// reaction; switching sides rewrites the row. Returns true when the reaction
// was removed.
func (r *ReactionRepository) ReactToArticle(articleID, userID uint, kind string) (bool, error) {
	var existing models.ArticleReaction
	err := r.db.Where("article_id = ? AND user_id = ?", articleID, userID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, r.db.Create(&models.ArticleReaction{ArticleID: articleID, UserID: userID, Kind: kind}).Error
	case err != nil:
		return false, err
	case existing.Kind == kind:
		return true, r.db.Delete(&existing).Error
	default:
		existing.Kind = kind
		return false, r.db.Save(&existing).Error
	}
}

func (r *ReactionRepository) ArticleCounts(articleID uint) (likes, dislikes int64, err error) {
	if err = r.db.Model(&models.ArticleReaction{}).
		Where("article_id = ? AND kind = ?", articleID, domain.ReactionLike).Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.ArticleReaction{}).
		Where("article_id = ? AND kind = ?", articleID, domain.ReactionDislike).Count(&dislikes).Error
	return likes, dislikes, err
}

// ReactToComment mirrors ReactToArticle for comments.
func (r *ReactionRepository) ReactToComment(commentID, userID uint, kind string) (bool, error) {
	var existing models.CommentReaction
	err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, r.db.Create(&models.CommentReaction{CommentID: commentID, UserID: userID, Kind: kind}).Error
	case err != nil:
		return false, err
	case existing.Kind == kind:
		return true, r.db.Delete(&existing).Error
	default:
		existing.Kind = kind
		return false, r.db.Save(&existing).Error
	}
}

func (r *ReactionRepository) CommentCounts(commentID uint) (likes, dislikes int64, err error) {
	if err = r.db.Model(&models.CommentReaction{}).
		Where("comment_id = ? AND kind = ?", commentID, domain.ReactionLike).Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.CommentReaction{}).
		Where("comment_id = ? AND kind = ?", commentID, domain.ReactionDislike).Count(&dislikes).Error
	return likes, dislikes, err
}
