package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"haven/internal/domain"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/service"
	"haven/internal/ws"
	"haven/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type statsFixture struct {
	db       *gorm.DB
	articles *ArticleHandler
	stats    *StatsHandler
	viewRepo *repository.ArticleViewRepository
	author   *models.User
	reader   *models.User
	article  *models.Article
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Article{}, &models.Tag{},
		&models.Comment{}, &models.ArticleReaction{}, &models.Rating{},
		&models.ArticleView{}, &models.Notification{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	author := &models.User{Username: "author", Email: "author@example.com"}
	reader := &models.User{Username: "reader", Email: "reader@example.com"}
	for _, u := range []*models.User{author, reader} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	article := &models.Article{Slug: "measured", Title: "Measured", Body: "body", AuthorID: author.ID, Published: true}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	articleRepo := repository.NewArticleRepository(db)
	userRepo := repository.NewUserRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	viewRepo := repository.NewArticleViewRepository(db)
	notifSvc := service.NewNotificationService(repository.NewNotificationRepository(db), userRepo,
		repository.NewFollowRepository(db),
		mailer.New(mailer.NewMockProvider(), log, "http://test.local"), ws.NewHub(), log, "http://test.local")

	return &statsFixture{
		db:       db,
		articles: NewArticleHandler(articleRepo, userRepo, reactionRepo, viewRepo, notifSvc),
		stats: NewStatsHandler(articleRepo, viewRepo, repository.NewCommentRepository(db),
			reactionRepo, repository.NewRatingRepository(db)),
		viewRepo: viewRepo,
		author:   author,
		reader:   reader,
		article:  article,
	}
}

// get performs GET path as userID; userID 0 means anonymous.
func (f *statsFixture) get(t *testing.T, userID uint, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	if userID != 0 {
		r.GET("/api/articles/stats", fakeAuth(userID), f.stats.List)
		r.GET("/api/articles/:slug", fakeAuth(userID), f.articles.Get)
	} else {
		r.GET("/api/articles/:slug", f.articles.Get)
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetRecordsDistinctReaderViews(t *testing.T) {
	f := newStatsFixture(t)

	// Two opens by the same reader count once.
	for i := 0; i < 2; i++ {
		if w := f.get(t, f.reader.ID, "/api/articles/measured"); w.Code != http.StatusOK {
			t.Fatalf("get status %d", w.Code)
		}
	}
	// The author's own opens and anonymous opens do not count.
	f.get(t, f.author.ID, "/api/articles/measured")
	f.get(t, 0, "/api/articles/measured")

	n, err := f.viewRepo.Count(f.article.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("view count %d, want 1", n)
	}
}

func TestStatsAggregatesPerArticle(t *testing.T) {
	f := newStatsFixture(t)
	seed := []interface{}{
		&models.ArticleView{ArticleID: f.article.ID, UserID: f.reader.ID},
		&models.Comment{ArticleID: f.article.ID, AuthorID: f.reader.ID, Body: "one"},
		&models.Comment{ArticleID: f.article.ID, AuthorID: f.reader.ID, Body: "two"},
		&models.ArticleReaction{ArticleID: f.article.ID, UserID: f.reader.ID, Kind: domain.ReactionLike},
		&models.Rating{ArticleID: f.article.ID, UserID: f.reader.ID, Value: 4},
		&models.Rating{ArticleID: f.article.ID, UserID: f.author.ID, Value: 5},
	}
	for _, rec := range seed {
		if err := f.db.Create(rec).Error; err != nil {
			t.Fatalf("seed %T: %v", rec, err)
		}
	}

	w := f.get(t, f.author.ID, "/api/articles/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
		Stats []struct {
			Slug          string  `json:"slug"`
			ViewCount     int64   `json:"view_count"`
			CommentCount  int64   `json:"comment_count"`
			LikeCount     int64   `json:"like_count"`
			DislikeCount  int64   `json:"dislike_count"`
			AverageRating float64 `json:"average_rating"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("stats rows %d, want 1", resp.Count)
	}
	row := resp.Stats[0]
	if row.Slug != "measured" || row.ViewCount != 1 || row.CommentCount != 2 ||
		row.LikeCount != 1 || row.DislikeCount != 0 || row.AverageRating != 4.5 {
		t.Errorf("stats row %+v", row)
	}

	// The reader has no articles and sees an empty report.
	w = f.get(t, f.reader.ID, "/api/articles/stats")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("reader sees %d stats rows, want 0", resp.Count)
	}
}
