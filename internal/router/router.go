package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/config"
	"github.com/ikkim/store-rating-backend/internal/app/controller"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/internal/middleware"
	"github.com/ikkim/store-rating-backend/internal/validation"
)

type Router struct {
	userController   *controller.UserController
	storeController  *controller.StoreController
	ratingController *controller.RatingController
	adminController  *controller.AdminController
	authMiddleware   *middleware.AuthMiddleware
	config           *config.Config
}

func NewRouter(
	userController *controller.UserController,
	storeController *controller.StoreController,
	ratingController *controller.RatingController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		userController:   userController,
		storeController:  storeController,
		ratingController: ratingController,
		adminController:  adminController,
		authMiddleware:   authMiddleware,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	validation.Setup()

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		apperrors.RespondWithMessage(c, http.StatusOK, gin.H{"status": "healthy"}, "Store rating API is running")
	})

	protect := r.authMiddleware.Protect()
	authorize := r.authMiddleware.Authorize

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", r.userController.Register)
			users.POST("/login", r.userController.Login)
			users.GET("/profile", protect, r.userController.GetProfile)
			users.PUT("/profile", protect, r.userController.UpdateProfile)
			users.PUT("/password", protect, r.userController.ChangePassword)
			users.POST("/logout", protect, r.userController.Logout)
		}

		stores := api.Group("/stores")
		{
			stores.GET("", r.authMiddleware.OptionalAuthenticate(), r.storeController.ListStores)
			stores.GET("/:id", r.storeController.GetStore)
			stores.POST("",
				protect,
				authorize(model.RoleStoreOwner, model.RoleAdmin),
				r.storeController.CreateStore,
			)
			stores.PUT("/:id",
				protect,
				authorize(model.RoleStoreOwner, model.RoleAdmin),
				r.storeController.UpdateStore,
			)
			stores.DELETE("/:id",
				protect,
				authorize(model.RoleStoreOwner, model.RoleAdmin),
				r.storeController.DeleteStore,
			)
		}

		ratings := api.Group("/ratings")
		{
			ratings.GET("", r.ratingController.ListRatings)
			ratings.GET("/store/:storeId", r.ratingController.ListStoreRatings)
			ratings.POST("/store/:storeId", protect, r.ratingController.CreateRating)
			ratings.PUT("/store/:storeId", protect, r.ratingController.UpdateRating)
			ratings.DELETE("/store/:storeId", protect, r.ratingController.DeleteRating)
		}

		admin := api.Group("/admin")
		admin.Use(protect, authorize(model.RoleAdmin))
		{
			admin.GET("/stats", r.adminController.GetStats)
			admin.GET("/users", r.adminController.ListUsers)
			admin.DELETE("/users/:id", r.adminController.DeleteUser)
			admin.GET("/stores", r.adminController.ListStores)
			admin.GET("/ratings", r.adminController.ListRatings)
			admin.POST("/users/register", r.userController.Register)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		apperrors.Abort(c, apperrors.NotFound("Route not found"))
	})

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
