package pkg

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"CommunityPortal/internal/complaint"
	"CommunityPortal/internal/config"
	"CommunityPortal/internal/dashboard"
	"CommunityPortal/internal/lostfound"
	"CommunityPortal/internal/matching"
	"CommunityPortal/internal/notification"
	"CommunityPortal/internal/session"
	"CommunityPortal/internal/store"
	"CommunityPortal/internal/volunteer"
	"CommunityPortal/internal/workflow"
	"CommunityPortal/pkg/middleware"
)

var PortalModules = fx.Module("portal",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(NewStore),
	fx.Provide(session.NewAccountRepository),
	fx.Provide(notification.NewHub),
	fx.Provide(notification.NewBroadcastService),
	fx.Provide(notification.NewHandler),
	fx.Provide(NewMatchingEngine),
	fx.Provide(lostfound.NewService),
	fx.Provide(lostfound.NewHandler),
	fx.Provide(complaint.NewService),
	fx.Provide(complaint.NewHandler),
	fx.Provide(workflow.NewController),
	fx.Provide(workflow.NewHandler),
	fx.Provide(volunteer.NewGuard),
	fx.Provide(volunteer.NewHandler),
	fx.Provide(dashboard.NewAggregator),
	fx.Provide(dashboard.NewHandler),
	fx.Invoke(EnsureIndexes),
	fx.Invoke(dashboard.Attach),
	fx.Invoke(RegisterRoutes))

// NewStore binds the store contract to the Mongo implementation.
func NewStore(db *mongo.Database, logger *zap.Logger) store.Store {
	return store.NewMongoStore(db, logger)
}

// NewMatchingEngine scans the lost-and-found collection.
func NewMatchingEngine(st store.Store, hub *notification.Hub, logger *zap.Logger) *matching.Engine {
	return matching.NewEngine(st, hub, lostfound.Collection, logger)
}

// EnsureIndexes creates the indexes the projections query against.
func EnsureIndexes(client *config.MongoDBClient, logger *zap.Logger) error {
	return config.NotificationIndex(client.GetCollection(notification.Collection), logger)
}

func NewEchoServer(lc fx.Lifecycle, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	port := ":8080"
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Server starting", zap.String("addr", port))
			go func() {
				if err := e.Start(port); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	lostfoundHandler *lostfound.Handler,
	complaintHandler *complaint.Handler,
	volunteerHandler *volunteer.Handler,
	notificationHandler *notification.Handler,
	workflowHandler *workflow.Handler,
	dashboardHandler *dashboard.Handler,
) {
	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware)

	api.POST("/lostfound", lostfoundHandler.Submit)
	api.GET("/lostfound", lostfoundHandler.List)
	api.GET("/lostfound/stream", lostfoundHandler.Stream)

	api.POST("/complaints", complaintHandler.Submit)
	api.GET("/complaints", complaintHandler.List)
	api.GET("/complaints/stream", complaintHandler.Stream)

	api.POST("/volunteer/registrations", volunteerHandler.Register)
	api.GET("/volunteer/registrations", volunteerHandler.List)

	api.GET("/notifications", notificationHandler.List)
	api.GET("/notifications/stream", notificationHandler.Stream)
	api.POST("/notifications/read", notificationHandler.MarkAllRead)
	api.POST("/notifications/:id/read", notificationHandler.MarkOneRead)

	admin := api.Group("/admin")
	admin.Use(middleware.CasbinMiddleware)
	admin.PUT("/lostfound/:id/status", workflowHandler.SetLostFoundStatus)
	admin.PUT("/complaints/:id/status", workflowHandler.SetComplaintStatus)
	admin.POST("/broadcast", notificationHandler.Broadcast)
	admin.GET("/dashboard", dashboardHandler.Summary)
}
