package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/booking"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/config"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/content"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/conversation"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/earnings"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/profile"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/realtime"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/session"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/subscription"
)

type Handlers struct {
	Profiles      *profile.Handler
	Bookings      *booking.Handler
	Sessions      *session.Handler
	Content       *content.Handler
	Subscriptions *subscription.Handler
	Conversations *conversation.Handler
	Earnings      *earnings.Handler
	Realtime      *realtime.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h Handlers) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.POST("/auth/refresh", RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst), h.Profiles.Refresh)

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware(cfg.JWTSecret))
	protected.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		protected.GET("/ws", h.Realtime.Serve)

		protected.GET("/me", h.Profiles.Me)
		protected.PUT("/me/pricing", auth.RequireRole(actor.RoleInfluencer), h.Profiles.SetPricing)
		protected.GET("/profiles/:id", h.Profiles.Get)

		protected.POST("/bookings", h.Bookings.Create)
		protected.GET("/bookings", h.Bookings.List)
		protected.GET("/bookings/:id", h.Bookings.Get)
		protected.POST("/bookings/:id/approve", h.Bookings.Approve)
		protected.POST("/bookings/:id/reject", h.Bookings.Reject)
		protected.POST("/bookings/:id/cancel", h.Bookings.Cancel)
		protected.POST("/bookings/:id/session", h.Sessions.Join)

		protected.GET("/sessions/:id/tick", h.Sessions.Tick)
		protected.POST("/sessions/:id/end", h.Sessions.End)

		protected.GET("/content/:id", h.Content.Get)
		protected.POST("/content/:id/purchase", h.Content.Purchase)
		protected.GET("/influencers/:id/content", h.Content.ListByOwner)

		protected.POST("/influencers/:id/subscribe", h.Subscriptions.Subscribe)
		protected.GET("/subscriptions", h.Subscriptions.ListMy)
		protected.POST("/subscriptions/:id/cancel", h.Subscriptions.Cancel)

		protected.POST("/conversations", h.Conversations.Open)
		protected.GET("/conversations", h.Conversations.ListMine)
		protected.GET("/conversations/:id/messages", h.Conversations.Messages)
		protected.POST("/conversations/:id/messages", h.Conversations.Send)

		protected.GET("/earnings", auth.RequireRole(actor.RoleInfluencer), h.Earnings.Mine)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
