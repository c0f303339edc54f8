package router

import (
	"time"

	"haven/config"
	"haven/internal/handler"
	"haven/internal/middleware"
	"haven/internal/repository"
	"haven/internal/service"
	"haven/internal/ws"
	"haven/pkg/cloudinary"
	"haven/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, mail *mailer.Mailer, cloud cloudinary.Client, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	viewRepo := repository.NewArticleViewRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, followRepo, mail, hub, log, cfg.Mail.BaseURL)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(userRepo, followRepo, notifSvc, cloud)
	articleHandler := handler.NewArticleHandler(articleRepo, userRepo, reactionRepo, viewRepo, notifSvc)
	statsHandler := handler.NewStatsHandler(articleRepo, viewRepo, commentRepo, reactionRepo, ratingRepo)
	violationHandler := handler.NewViolationHandler(violationRepo, articleRepo, userRepo, mail, log)
	commentHandler := handler.NewCommentHandler(commentRepo, articleRepo, userRepo, reactionRepo, notifSvc)
	favoriteHandler := handler.NewFavoriteHandler(favRepo, articleRepo, userRepo, notifSvc)
	ratingHandler := handler.NewRatingHandler(ratingRepo, articleRepo, userRepo, notifSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, userRepo, notifSvc, log)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		profiles := api.Group("/profiles", authMw)
		{
			profiles.GET("", profileHandler.List)
			profiles.PUT("", profileHandler.Update)
			profiles.POST("/avatar", profileHandler.UploadAvatar)
			profiles.GET("/:username", profileHandler.Get)
			profiles.POST("/:username/follow", profileHandler.Follow)
			profiles.DELETE("/:username/follow", profileHandler.Unfollow)
			profiles.GET("/:username/followers", profileHandler.Followers)
			profiles.GET("/:username/following", profileHandler.Following)
		}

		api.GET("/articles", articleHandler.List)
		api.GET("/articles/:slug", middleware.AuthOptional(&cfg.JWT), articleHandler.Get)
		api.GET("/tags", articleHandler.ListTags)

		articles := api.Group("/articles", authMw)
		{
			articles.POST("", articleHandler.Create)
			articles.GET("/stats", statsHandler.List)
			articles.PUT("/:slug", articleHandler.Update)
			articles.DELETE("/:slug", articleHandler.Delete)
			articles.POST("/:slug/like", articleHandler.Like)
			articles.POST("/:slug/dislike", articleHandler.Dislike)
			articles.POST("/:slug/favorite", favoriteHandler.Add)
			articles.DELETE("/:slug/favorite", favoriteHandler.Remove)
			articles.POST("/:slug/rating", ratingHandler.Rate)
			articles.GET("/:slug/rating", ratingHandler.Mine)
			articles.GET("/:slug/ratings", ratingHandler.Summary)

			articles.GET("/:slug/comments", commentHandler.List)
			articles.POST("/:slug/comments", commentHandler.Create)
			articles.GET("/:slug/comments/:id", commentHandler.Thread)
			articles.POST("/:slug/comments/:id", commentHandler.Create)
			articles.PUT("/:slug/comments/:id", commentHandler.Update)
			articles.DELETE("/:slug/comments/:id", commentHandler.Delete)
			articles.POST("/:slug/comments/:id/like", commentHandler.Like)
			articles.POST("/:slug/comments/:id/dislike", commentHandler.Dislike)

			articles.POST("/:slug/violations", violationHandler.Report)
		}

		api.GET("/violations/types", authMw, violationHandler.Types)

		moderation := api.Group("/violations", authMw, middleware.AdminRequired(userRepo))
		{
			moderation.GET("", violationHandler.List)
			moderation.PUT("/:slug", violationHandler.Process)
		}

		api.GET("/favorites", authMw, favoriteHandler.List)

		notifications := api.Group("/notifications", authMw)
		{
			notifications.GET("/all", notificationHandler.All)
			notifications.DELETE("/all", notificationHandler.DeleteAll)
			notifications.GET("/unread", notificationHandler.Unread)
			notifications.GET("/read", notificationHandler.Read)
			notifications.PUT("/read/:id", notificationHandler.MarkRead)
			notifications.GET("/unsent", notificationHandler.Unsent)
			notifications.GET("/sent", notificationHandler.Sent)
			notifications.POST("/subscription", notificationHandler.Subscribe)
			notifications.DELETE("/subscription", notificationHandler.Unsubscribe)
			notifications.GET("/subscription", notificationHandler.SubscriptionStatus)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, hub))

	return r
}
