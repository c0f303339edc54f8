package repository

import (
	"testing"

	"haven/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Article{},
		&models.Tag{},
		&models.Comment{},
		&models.ArticleReaction{},
		&models.CommentReaction{},
		&models.Favorite{},
		&models.Rating{},
		&models.ArticleView{},
		&models.Violation{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func mustCreateArticle(t *testing.T, db *gorm.DB, authorID uint, slug string) *models.Article {
	t.Helper()
	a := &models.Article{Slug: slug, Title: slug, Body: "body", AuthorID: authorID}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("create article %s: %v", slug, err)
	}
	return a
}
