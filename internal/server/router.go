// Package server assembles the HTTP stack: gin routes, middlewares and CORS.
package server

import (
	"net/http"

	"fulvo/backend/internal/auth"
	"fulvo/backend/internal/handler"
	"fulvo/backend/internal/logging"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups every API handler.
type Handlers struct {
	Auth     *handler.AuthHandler
	Matches  *handler.MatchHandler
	Venues   *handler.VenueHandler
	Players  *handler.PlayerHandler
	Rankings *handler.RankingHandler
	Leagues  *handler.LeagueHandler
	Friends  *handler.FriendHandler
	Owners   *handler.OwnerHandler
	Payments *handler.PaymentHandler
	AI       *handler.AIHandler
	Waitlist *handler.WaitlistHandler
	Health   *handler.HealthHandler
}

// Options configures the router.
type Options struct {
	Log     zerolog.Logger
	Tokens  auth.TokenParser
	Metrics metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Swagger        bool
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(h Handlers, opt Options) *gin.Engine {
	router := gin.New()
	router.Use(logging.Middleware(opt.Log), logging.Recovery())
	if opt.Metrics != nil {
		router.Use(metrics.Middleware(opt.Metrics))
	}

	if opt.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opt.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(opt.MetricsHandler))
	}

	requireAuth := auth.AuthMiddleware(opt.Tokens)
	ownerOnly := auth.RequireRole(models.RoleOwner)
	playerOnly := auth.RequireRole(models.RolePlayer)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Check)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Auth.Register)
			authRoutes.POST("/login", h.Auth.Login)
			authRoutes.POST("/verificar-codigo", h.Auth.VerifyCode)
			authRoutes.POST("/reenviar-codigo", h.Auth.ResendCode)
		}

		matchRoutes := api.Group("/matches")
		{
			matchRoutes.GET("", h.Matches.List)
			matchRoutes.GET("/mine", requireAuth, ownerOnly, h.Matches.Mine)
			matchRoutes.GET("/:id", auth.OptionalAuthMiddleware(opt.Tokens), h.Matches.Get)
			matchRoutes.GET("/:id/events", h.Matches.Events)
			matchRoutes.POST("", requireAuth, ownerOnly, h.Matches.Create)
			matchRoutes.DELETE("/:id", requireAuth, ownerOnly, h.Matches.Delete)
			matchRoutes.POST("/:id/join", requireAuth, playerOnly, h.Matches.Join)
			matchRoutes.DELETE("/:id/leave", requireAuth, playerOnly, h.Matches.Leave)
			matchRoutes.POST("/:id/assign-teams", requireAuth, ownerOnly, h.Matches.AssignTeams)
			matchRoutes.PUT("/:id/result", requireAuth, ownerOnly, h.Matches.SubmitResult)
			matchRoutes.PUT("/:id/players/:playerId/payment", requireAuth, ownerOnly, h.Matches.ConfirmPayment)
		}

		venueRoutes := api.Group("/venues")
		{
			venueRoutes.GET("", h.Venues.List)
			venueRoutes.GET("/zones", h.Venues.Zones)
			venueRoutes.GET("/my", requireAuth, ownerOnly, h.Venues.Mine)
			venueRoutes.GET("/:id", h.Venues.Get)
			venueRoutes.POST("", requireAuth, ownerOnly, h.Venues.Create)
			venueRoutes.PUT("/:id", requireAuth, ownerOnly, h.Venues.Update)
			venueRoutes.DELETE("/:id", requireAuth, ownerOnly, h.Venues.Delete)
		}

		playerRoutes := api.Group("/players")
		{
			playerRoutes.GET("/profile", requireAuth, h.Players.Profile)
			playerRoutes.PUT("/profile", requireAuth, h.Players.UpdateProfile)
			playerRoutes.GET("/matches", requireAuth, h.Players.Matches)
			playerRoutes.GET("/ranking", h.Rankings.List)
			playerRoutes.GET("/:id", h.Players.Get)
		}

		rankingRoutes := api.Group("/rankings")
		{
			rankingRoutes.GET("", h.Rankings.List)
			rankingRoutes.GET("/me", requireAuth, h.Rankings.Me)
		}

		leagueRoutes := api.Group("/leagues")
		{
			leagueRoutes.GET("/current-season", h.Leagues.CurrentSeason)
			leagueRoutes.GET("/my-league", requireAuth, h.Leagues.MyLeague)
			leagueRoutes.GET("/top-diamond", h.Leagues.TopDiamond)
			leagueRoutes.GET("/info", h.Leagues.Info)
			leagueRoutes.GET("/:liga/standings", h.Leagues.Standings)
		}

		friendRoutes := api.Group("/friends")
		friendRoutes.Use(requireAuth)
		{
			friendRoutes.GET("", h.Friends.List)
			friendRoutes.GET("/pending", h.Friends.Pending)
			friendRoutes.GET("/sent", h.Friends.Sent)
			friendRoutes.GET("/search", h.Friends.Search)
			friendRoutes.GET("/status/:userId", h.Friends.Status)
			friendRoutes.POST("/request/:userId", h.Friends.Request)
			friendRoutes.PUT("/accept/:id", h.Friends.Accept)
			friendRoutes.DELETE("/:id", h.Friends.Remove)
		}

		ownerRoutes := api.Group("/owners")
		ownerRoutes.Use(requireAuth, ownerOnly)
		{
			ownerRoutes.GET("/stats", h.Owners.Stats)
			ownerRoutes.GET("/stats/monthly", h.Owners.Monthly)
		}

		paymentRoutes := api.Group("/payments")
		{
			paymentRoutes.POST("/create-subscription", requireAuth, h.Payments.CreateSubscription)
			paymentRoutes.POST("/webhook", h.Payments.Webhook)
			paymentRoutes.GET("/status/check", requireAuth, h.Payments.Status)
		}

		api.POST("/ai/validate", requireAuth, h.AI.Validate)
		api.POST("/chat/owner", requireAuth, ownerOnly, h.AI.Chat)

		waitlistRoutes := api.Group("/waitlist")
		{
			waitlistRoutes.POST("", h.Waitlist.Join)
			waitlistRoutes.GET("/count", h.Waitlist.Count)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{Error: "Ruta no encontrada"})
	})
	return router
}

// WithCORS wraps the router with the CORS policy for the web client.
func WithCORS(next http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", logging.RequestIDHeader},
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(next)
}
