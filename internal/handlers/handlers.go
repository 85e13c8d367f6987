package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ngplus/api/internal/config"
	"ngplus/api/internal/mail"
	"ngplus/api/internal/middleware"
	"ngplus/api/internal/models"
	"ngplus/api/internal/repository"
	"ngplus/api/internal/service"
	"ngplus/api/internal/storage"
)

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	db    *pgxpool.Pool
	cache *redis.Client

	users *repository.UserRepository

	authService   *service.AuthService
	userService   *service.UserService
	mediaService  *service.MediaService
	ratingService *service.RatingService
	fileService   *service.FileService
	reportService *service.ReportService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	outbox := mail.NewOutbox(cache, cfg.SMTP.Stream, log)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		db:            db,
		cache:         cache,
		users:         userRepo,
		authService:   service.NewAuthService(userRepo, outbox, cfg, log),
		userService:   service.NewUserService(userRepo, outbox, log),
		mediaService:  service.NewMediaService(mediaRepo, log),
		ratingService: service.NewRatingService(ratingRepo, mediaRepo, outbox, log),
		fileService:   service.NewFileService(store, cfg.Upload, log),
		reportService: service.NewReportService(repository.ReportSource{
			Users:   userRepo,
			Media:   mediaRepo,
			Ratings: ratingRepo,
		}, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := middleware.Auth(h.cfg.Security.JWTAccessSecret, h.users)
	adminOnly := middleware.RequireRoles(models.AccountTypeAdmin)

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password",
			middleware.ResetAuth(h.cfg.Security.JWTResetSecret), h.ResetPassword)
		authGroup.POST("/logout", auth, h.Logout)
	}

	usersGroup := v1.Group("/users")
	{
		usersGroup.POST("", h.RegisterUser)
		usersGroup.GET("/:id", auth, h.GetUser)
		usersGroup.PUT("/:id", auth, h.UpdateUser)
		usersGroup.DELETE("/:id", auth, h.DeleteUser)
	}

	adminUsers := v1.Group("/admin/users", auth, adminOnly)
	{
		adminUsers.POST("", h.AdminCreateUser)
		adminUsers.GET("", h.ListUsers)
		adminUsers.PUT("/:id", h.UpdateUser)
	}

	mediaGroup := v1.Group("/media")
	{
		mediaGroup.GET("", h.ListMedia)
		mediaGroup.GET("/:id", h.GetMedia)
		mediaGroup.POST("", auth, h.CreateMedia)
		mediaGroup.PUT("/:id", auth, h.UpdateMedia)
		mediaGroup.DELETE("/:id", auth, h.DeleteMedia)
	}

	ratingsGroup := v1.Group("/ratings")
	{
		ratingsGroup.GET("", h.ListRatings)
		ratingsGroup.GET("/:id", h.GetRating)
		ratingsGroup.POST("", auth, h.CreateRating)
		ratingsGroup.PUT("/:id", auth, h.UpdateRating)
		ratingsGroup.DELETE("/:id", auth, h.DeleteRating)
	}

	filesGroup := v1.Group("/files", auth)
	{
		filesGroup.POST("/upload", h.UploadFile)
		filesGroup.DELETE("/delete", h.DeleteFile)
	}

	reportsGroup := v1.Group("/reports", auth, adminOnly)
	{
		reportsGroup.GET("/pdf", h.ReportPDF)
		reportsGroup.GET("/excel", h.ReportXLSX)
	}
}
