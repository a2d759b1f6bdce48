package http

import (
	"log/slog"

	"github.com/geocoder89/travellog/internal/cache"
	"github.com/geocoder89/travellog/internal/config"
	"github.com/geocoder89/travellog/internal/http/handlers"
	"github.com/geocoder89/travellog/internal/http/middlewares"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// TokenManager issues tokens at login and verifies them on protected routes.
type TokenManager interface {
	handlers.TokenIssuer
	middlewares.TokenVerifier
}

type Deps struct {
	Users  handlers.UsersService
	Trips  handlers.TripsService
	Places handlers.PlacesService
	Tokens TokenManager

	Cache    cache.Store
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	// Ready lists the dependencies /readyz pings.
	Ready map[string]handlers.Pinger
}

func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// gin trusts every proxy by default, letting any caller pick its own
	// ClientIP through X-Forwarded-For.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		slog.Error("invalid trusted proxies, trusting none", "err", err)
		_ = r.SetTrustedProxies(nil)
	}

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middlewares.RequestLogger())
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health, metrics, docs
	h := handlers.NewHealthHandler(deps.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.GET("/docs", handlers.DocsUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// wire up handlers
	lists := handlers.NewLists(deps.Cache, deps.Prom, cfg.BaseURL)
	usersHandler := handlers.NewUsersHandler(deps.Users, deps.Tokens, lists)
	tripsHandler := handlers.NewTripsHandler(deps.Trips, lists)
	placesHandler := handlers.NewPlacesHandler(deps.Places, lists)

	authMW := middlewares.NewAuthMiddleware(deps.Tokens)
	authLimiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	writeLimiter := middlewares.NewRateLimiter(cfg.RateLimitRPS*4, cfg.RateLimitBurst*4)

	// public
	users := r.Group("/users")
	{
		users.POST("/signup", authLimiter.Middleware(middlewares.KeyByIP), middlewares.RequireJSON(), usersHandler.SignUp)
		users.POST("/login", authLimiter.Middleware(middlewares.KeyByIP), middlewares.RequireJSON(), usersHandler.Login)
		users.GET("", usersHandler.List)
		users.GET("/:userid", usersHandler.Get)
	}

	r.GET("/trips", tripsHandler.List)
	r.GET("/trips/:tripid", tripsHandler.Get)
	r.GET("/trips/:tripid/places", placesHandler.ListForTrip)
	r.GET("/places", placesHandler.List)
	r.GET("/places/:placeid", placesHandler.Get)

	// protected
	protected := r.Group("/")
	protected.Use(authMW.RequireAuth())
	protected.Use(writeLimiter.Middleware(middlewares.KeyByUserOrIP))
	protected.Use(middlewares.RequireJSON())
	{
		protected.PATCH("/users/:userid", usersHandler.Patch)
		protected.PUT("/users/:userid", usersHandler.Replace)
		protected.DELETE("/users/:userid", usersHandler.Delete)

		protected.POST("/trips", tripsHandler.Create)
		protected.PATCH("/trips/:tripid", tripsHandler.Patch)
		protected.PUT("/trips/:tripid", tripsHandler.Replace)
		protected.DELETE("/trips/:tripid", tripsHandler.Delete)

		protected.POST("/places", placesHandler.Create)
		protected.PATCH("/places/:placeid", placesHandler.Patch)
		protected.PUT("/places/:placeid", placesHandler.Replace)
		protected.DELETE("/places/:placeid", placesHandler.Delete)
	}

	return r
}
