package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wsid/config"
	"wsid/cron"
	"wsid/database"
	commentRepoPkg "wsid/database/repository/comment"
	postRepoPkg "wsid/database/repository/post"
	regRepoPkg "wsid/database/repository/registration"
	socialRepoPkg "wsid/database/repository/social"
	tokenRepoPkg "wsid/database/repository/token"
	userRepoPkg "wsid/database/repository/user"
	voteRepoPkg "wsid/database/repository/vote"
	"wsid/handlers"
	"wsid/routes"
	"wsid/services/auth"
	"wsid/services/comment"
	"wsid/services/misc"
	"wsid/services/post"
	"wsid/services/profile"
	"wsid/services/storage"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.FirebaseInit()

	storageService, err := storage.NewStorageService()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	regRepo := regRepoPkg.NewMongoRegistrationRepo()
	tokenRepo := tokenRepoPkg.NewMongoTokenRepo()
	postRepo := postRepoPkg.NewMongoPostRepo()
	voteRepo := voteRepoPkg.NewMongoVoteRepo()
	commentRepo := commentRepoPkg.NewMongoCommentRepo()
	socialRepo := socialRepoPkg.NewMongoSocialRepo()

	// services.
	authService := &auth.DefaultAuthService{
		Users:    userRepo,
		Pending:  regRepo,
		Tokens:   tokenRepo,
		Mailer:   utils.NewSMTPMailer(),
		Verifier: auth.NewFirebaseVerifier(),
		Storage:  storageService,
	}
	postService := &post.DefaultPostService{
		Posts:    postRepo,
		Votes:    voteRepo,
		Comments: commentRepo,
		Users:    userRepo,
		Storage:  storageService,
	}
	commentService := &comment.DefaultCommentService{
		Comments: commentRepo,
		Posts:    postRepo,
		Users:    userRepo,
	}
	profileService := &profile.DefaultProfileService{
		Users:    userRepo,
		Social:   socialRepo,
		Tokens:   tokenRepo,
		Pending:  regRepo,
		Posts:    postRepo,
		Comments: commentRepo,
		Votes:    voteRepo,
		PostSvc:  postService,
		Storage:  storageService,
	}
	miscService := &misc.DefaultMiscService{
		Social: socialRepo,
	}

	// Background counter reconciliation.
	cron.InitCounterWorker(postRepo, voteRepo, commentRepo)

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(authService, profileService, postService, commentService, miscService)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
