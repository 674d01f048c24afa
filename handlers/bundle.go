package handlers

import (
	"wsid/services/auth"
	"wsid/services/comment"
	"wsid/services/misc"
	"wsid/services/post"
	"wsid/services/profile"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Auth endpoints
	RegisterStep1Handler  gin.HandlerFunc
	VerifyOTPHandler      gin.HandlerFunc
	ResendOTPHandler      gin.HandlerFunc
	RegisterStep3Handler  gin.HandlerFunc
	CheckUsernameHandler  gin.HandlerFunc
	LoginHandler          gin.HandlerFunc
	GoogleSignInHandler   gin.HandlerFunc
	AppleSignInHandler    gin.HandlerFunc
	RefreshHandler        gin.HandlerFunc
	LogoutHandler         gin.HandlerFunc
	ForgotPasswordHandler gin.HandlerFunc
	ResetPasswordHandler  gin.HandlerFunc

	// User endpoints
	TrendingUsersHandler gin.HandlerFunc
	SearchUsersHandler   gin.HandlerFunc
	ViewProfileHandler   gin.HandlerFunc
	EditProfileHandler   gin.HandlerFunc
	FollowUserHandler    gin.HandlerFunc
	LikeUserHandler      gin.HandlerFunc
	DeleteAccountHandler gin.HandlerFunc

	// Post and vote endpoints
	CreatePostHandler    gin.HandlerFunc
	UpdatePostHandler    gin.HandlerFunc
	DeletePostHandler    gin.HandlerFunc
	ListPostsHandler     gin.HandlerFunc
	GetPostHandler       gin.HandlerFunc
	SearchPostsHandler   gin.HandlerFunc
	TrendingPostsHandler gin.HandlerFunc
	CastVoteHandler      gin.HandlerFunc
	RetractVoteHandler   gin.HandlerFunc

	// Comment endpoints
	CreateCommentHandler    gin.HandlerFunc
	UpdateCommentHandler    gin.HandlerFunc
	DeleteCommentHandler    gin.HandlerFunc
	GetCommentsHandler      gin.HandlerFunc
	LikeCommentHandler      gin.HandlerFunc
	DislikeCommentHandler   gin.HandlerFunc
	CommentReactionsHandler gin.HandlerFunc

	// Misc endpoints
	SubscribeHandler gin.HandlerFunc

	// Admin endpoints
	AdminLoginHandler      gin.HandlerFunc
	AdminListUsersHandler  gin.HandlerFunc
	AdminDeleteUserHandler gin.HandlerFunc
}

// NewHandlerBundle wires every endpoint handler to its service.
func NewHandlerBundle(
	authSvc auth.AuthService,
	profileSvc profile.ProfileService,
	postSvc post.PostService,
	commentSvc comment.CommentService,
	miscSvc misc.MiscService,
) *HandlerBundle {
	return &HandlerBundle{
		RegisterStep1Handler:  RegisterStep1Handler(authSvc),
		VerifyOTPHandler:      VerifyOTPHandler(authSvc),
		ResendOTPHandler:      ResendOTPHandler(authSvc),
		RegisterStep3Handler:  RegisterStep3Handler(authSvc),
		CheckUsernameHandler:  CheckUsernameHandler(authSvc),
		LoginHandler:          LoginHandler(authSvc, false),
		GoogleSignInHandler:   SocialSignInHandler(authSvc, "google"),
		AppleSignInHandler:    SocialSignInHandler(authSvc, "apple"),
		RefreshHandler:        RefreshHandler(authSvc),
		LogoutHandler:         LogoutHandler(authSvc),
		ForgotPasswordHandler: ForgotPasswordHandler(authSvc),
		ResetPasswordHandler:  ResetPasswordHandler(authSvc),

		TrendingUsersHandler: TrendingUsersHandler(profileSvc),
		SearchUsersHandler:   SearchUsersHandler(profileSvc),
		ViewProfileHandler:   ViewProfileHandler(profileSvc),
		EditProfileHandler:   EditProfileHandler(profileSvc),
		FollowUserHandler:    FollowUserHandler(profileSvc),
		LikeUserHandler:      LikeUserHandler(profileSvc),
		DeleteAccountHandler: DeleteAccountHandler(profileSvc),

		CreatePostHandler:    CreatePostHandler(postSvc),
		UpdatePostHandler:    UpdatePostHandler(postSvc),
		DeletePostHandler:    DeletePostHandler(postSvc),
		ListPostsHandler:     ListPostsHandler(postSvc),
		GetPostHandler:       GetPostHandler(postSvc),
		SearchPostsHandler:   SearchPostsHandler(postSvc),
		TrendingPostsHandler: TrendingPostsHandler(postSvc),
		CastVoteHandler:      CastVoteHandler(postSvc),
		RetractVoteHandler:   RetractVoteHandler(postSvc),

		CreateCommentHandler:    CreateCommentHandler(commentSvc),
		UpdateCommentHandler:    UpdateCommentHandler(commentSvc),
		DeleteCommentHandler:    DeleteCommentHandler(commentSvc),
		GetCommentsHandler:      GetCommentsHandler(commentSvc),
		LikeCommentHandler:      LikeCommentHandler(commentSvc),
		DislikeCommentHandler:   DislikeCommentHandler(commentSvc),
		CommentReactionsHandler: CommentReactionsHandler(commentSvc),

		SubscribeHandler: SubscribeHandler(miscSvc),

		AdminLoginHandler:      LoginHandler(authSvc, true),
		AdminListUsersHandler:  AdminListUsersHandler(profileSvc),
		AdminDeleteUserHandler: AdminDeleteUserHandler(profileSvc),
	}
}
