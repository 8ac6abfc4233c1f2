package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/murmurchat/murmur/internal/infrastructure/configs"
	"github.com/murmurchat/murmur/internal/infrastructure/ratelimiter"
	healthHandler "github.com/murmurchat/murmur/internal/presentation/handler/health"
	messagesHandler "github.com/murmurchat/murmur/internal/presentation/handler/messages"
	roomsHandler "github.com/murmurchat/murmur/internal/presentation/handler/rooms"
	translationsHandler "github.com/murmurchat/murmur/internal/presentation/handler/translations"
	usersHandler "github.com/murmurchat/murmur/internal/presentation/handler/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Application struct {
	config              configs.Config
	usersHandler        *usersHandler.Handler
	roomsHandler        *roomsHandler.Handler
	messagesHandler     *messagesHandler.Handler
	translationsHandler *translationsHandler.Handler
	healthHandler       *healthHandler.Handler
	logger              *zap.SugaredLogger
	ratelimiter         ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	usersHandler *usersHandler.Handler,
	roomsHandler *roomsHandler.Handler,
	messagesHandler *messagesHandler.Handler,
	translationsHandler *translationsHandler.Handler,
	healthHandler *healthHandler.Handler,
	logger *zap.SugaredLogger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:              config,
		usersHandler:        usersHandler,
		roomsHandler:        roomsHandler,
		messagesHandler:     messagesHandler,
		translationsHandler: translationsHandler,
		healthHandler:       healthHandler,
		logger:              logger,
		ratelimiter:         ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", app.usersHandler.RegisterHandler)
		r.Post("/login", app.usersHandler.LoginHandler)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.usersHandler.ListUsersHandler)
			r.Get("/{userId}", app.usersHandler.GetUserHandler)
			r.Patch("/{userId}", app.usersHandler.UpdateUserHandler)
			r.Delete("/{userId}", app.usersHandler.DeleteUserHandler)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", app.roomsHandler.ListRoomsHandler)
			r.Post("/", app.roomsHandler.CreateRoomHandler)
			r.Get("/user/{userId}", app.roomsHandler.GetUserRoomsHandler)
			r.Get("/{roomId}", app.roomsHandler.GetRoomHandler)
			r.Patch("/{roomId}", app.roomsHandler.UpdateRoomHandler)
			r.Delete("/{roomId}", app.roomsHandler.DeleteRoomHandler)

			r.Get("/{roomId}/members", app.roomsHandler.GetMembersHandler)
			r.Post("/{roomId}/members", app.roomsHandler.AddMemberHandler)
			r.Delete("/{roomId}/members/{userId}", app.roomsHandler.RemoveMemberHandler)

			r.Get("/{roomId}/messages", app.messagesHandler.GetRoomMessagesHandler)
			r.Post("/{roomId}/messages", app.messagesHandler.CreateMessageHandler)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/{messageId}", app.messagesHandler.GetMessageHandler)
			r.Patch("/{messageId}", app.messagesHandler.UpdateMessageHandler)
			r.Delete("/{messageId}", app.messagesHandler.DeleteMessageHandler)
		})

		r.Post("/translate", app.translationsHandler.TranslateHandler)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
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

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
