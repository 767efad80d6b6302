package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Omer-fixz/resturant/docs"
	"github.com/Omer-fixz/resturant/internal/auth"
	"github.com/Omer-fixz/resturant/internal/idempotency"
	"github.com/Omer-fixz/resturant/internal/media"
	"github.com/Omer-fixz/resturant/internal/queue"
	"github.com/Omer-fixz/resturant/internal/ratelimiter"
	"github.com/Omer-fixz/resturant/internal/realtime"
	"github.com/Omer-fixz/resturant/internal/service"
	"github.com/Omer-fixz/resturant/internal/store/mongo"
	"github.com/Omer-fixz/resturant/internal/worker"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config            config
	logger            *zap.SugaredLogger
	rateLimiter       ratelimiter.Limiter
	storage           *mongo.Storage
	broker            queue.Broker
	redis             *redis.Client
	hub               *realtime.Hub
	authenticator     auth.Authenticator
	idempotency       *idempotency.Store
	orderService      *service.OrderService
	mealService       *service.MealService
	restaurantService *service.RestaurantService
	importService     *service.ImportService
	orderEventsWorker *worker.OrderEventsWorker
	menuImportWorker  *worker.MenuImportWorker
}

type config struct {
	addr        string
	env         string
	apiURL      string
	clientURL   string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	rabbitMQ    rabbitMQConfig
	redis       redisConfig
	authJWT     authConfig
	cloudinary  media.CloudinaryConfig
	googleCreds string
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

type redisConfig struct {
	Addr    string
	IdemTTL time.Duration
}

type authConfig struct {
	Secret string
	Aud    string
	Iss    string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{app.config.clientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/ws", realtime.ServeWS(app.hub, app.restaurantService, app.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/orders", func(r chi.Router) {
			// customer-facing, no account required
			r.Post("/", app.createOrderHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Get("/{restaurantId}", app.listOrdersHandler)
				r.Put("/{id}/status", app.updateOrderStatusHandler)
			})
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/{restaurantId}", app.getMenuHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/meal", app.createMealHandler)
				r.Put("/meal/{id}", app.updateMealHandler)
				r.Delete("/meal/{id}", app.deleteMealHandler)
				r.Patch("/meal/{id}/toggle", app.toggleMealHandler)
				r.Post("/bulk-price-update", app.bulkPriceUpdateHandler)
				r.Post("/import", app.createImportTaskHandler)
				r.Get("/import/{taskId}", app.getImportTaskHandler)
			})
		})

		r.Route("/restaurant", func(r chi.Router) {
			r.Get("/{id}/qr", app.restaurantQRHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/register", app.registerRestaurantHandler)
				r.Get("/profile/{userId}", app.getProfileHandler)
				r.Put("/profile/{id}", app.updateProfileHandler)
			})
		})

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Restaurant Management API"
	docs.SwaggerInfo.Description = "Backend for restaurant dashboards"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api"

	// workers
	if err := app.orderEventsWorker.Start(); err != nil {
		return fmt.Errorf("failed to start order events worker: %w", err)
	}
	if err := app.menuImportWorker.Start(); err != nil {
		return fmt.Errorf("failed to start menu import worker: %w", err)
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		app.orderEventsWorker.Stop()
		app.menuImportWorker.Stop()

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		if app.redis != nil {
			if err := app.redis.Close(); err != nil {
				app.logger.Errorw("error closing Redis", "error", err)
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
