package routes

import (
	"net/http"
	"time"

	"wsid/config"
	"wsid/handlers"
	"wsid/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register-step1", hb.RegisterStep1Handler)
		api.POST("/register-step2", hb.VerifyOTPHandler)
		api.POST("/register-step3", hb.RegisterStep3Handler)
		api.POST("/resend-otp", hb.ResendOTPHandler)
		api.GET("/check-username", hb.CheckUsernameHandler)
		api.POST("/login", hb.LoginHandler)
		api.POST("/login-with-google", hb.GoogleSignInHandler)
		api.POST("/login-with-apple", hb.AppleSignInHandler)
		api.POST("/refresh", hb.RefreshHandler)
		api.POST("/forgot-password", hb.ForgotPasswordHandler)
		api.POST("/reset-password", hb.ResetPasswordHandler)

		api.POST("/logout", middleware.JWTAuthMiddleware(), hb.LogoutHandler)
	}
}

// RegisterUserRoutes registers profile and social endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/user")
	{
		// Trending stays public; it still personalizes when a token is sent.
		api.GET("/trending", middleware.OptionalAuthMiddleware(), hb.TrendingUsersHandler)

		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/search", hb.SearchUsersHandler)
		api.GET("/profile/:userId", hb.ViewProfileHandler)
		api.PUT("/profile", hb.EditProfileHandler)
		api.POST("/follow/:userId", hb.FollowUserHandler)
		api.POST("/like/:userId", hb.LikeUserHandler)
		api.DELETE("/delete", hb.DeleteAccountHandler)
	}
}

// RegisterPostRoutes registers post CRUD, search and trending endpoints.
func RegisterPostRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/post")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/get", hb.ListPostsHandler)
		api.GET("/get/:id", hb.GetPostHandler)
		api.GET("/search", hb.SearchPostsHandler)
		api.GET("/trending", hb.TrendingPostsHandler)
		api.POST("/create", hb.CreatePostHandler)
		api.PUT("/update/:id", hb.UpdatePostHandler)
		api.DELETE("/delete/:id", hb.DeletePostHandler)
	}
}

// RegisterVoteRoutes registers vote endpoints.
func RegisterVoteRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vote")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/create", hb.CastVoteHandler)
		api.DELETE("/delete", hb.RetractVoteHandler)
	}
}

// RegisterCommentRoutes registers comment endpoints.
func RegisterCommentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/comment")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/get/:postId", hb.GetCommentsHandler)
		api.GET("/:commentId/:type", hb.CommentReactionsHandler)
		api.POST("/create", hb.CreateCommentHandler)
		api.PUT("/update/:id", hb.UpdateCommentHandler)
		api.DELETE("/delete/:id", hb.DeleteCommentHandler)
		api.POST("/like/:id", hb.LikeCommentHandler)
		api.POST("/dislike/:id", hb.DislikeCommentHandler)
	}
}

// RegisterMiscRoutes registers the newsletter endpoint.
func RegisterMiscRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/misc")
	{
		api.POST("/subscribe", hb.SubscribeHandler)
	}
}

// RegisterAdminRoutes registers the admin console endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.POST("/login", hb.AdminLoginHandler)

		api.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnlyMiddleware())
		api.GET("/users", hb.AdminListUsersHandler)
		api.DELETE("/user/:userId", hb.AdminDeleteUserHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "WSID API"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := config.AppConfig.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterPostRoutes(r, hb)
	RegisterVoteRoutes(r, hb)
	RegisterCommentRoutes(r, hb)
	RegisterMiscRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
