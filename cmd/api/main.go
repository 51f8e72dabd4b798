package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/adapters/password"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/adapters/session"
	"hotel_booking/internal/adapters/upload"
	"hotel_booking/internal/app"
	"hotel_booking/internal/shared"
	mongorepo "hotel_booking/internal/storage/mongo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)
	store := mongorepo.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}
	log.Info().Str("db", cfg.MongoDB).Msg("database connection ok")

	// redis: countries cache, and sessions unless they live in mongo
	rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rc.Close()
	cache := redisad.New(rc, "cache:")

	var sessStore session.Store
	switch cfg.SessionStore {
	case "mongo":
		ms := session.NewMongoStore(db.Collection(mongorepo.SessionsCollection))
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("session index failed")
		}
		sessStore = ms
	default:
		sessStore = session.NewRedisStore(rc)
	}
	sessions := session.NewManager(sessStore, cfg.SessionSecret, cfg.SessionTTL,
		session.WithSecureCookie(cfg.Production()))

	uploader, err := upload.FromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("uploader init failed")
	}

	views, err := server.NewTemplates(cfg.ImageBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("templates failed")
	}

	// deps
	h := &server.Handlers{
		Q:              app.NewQueryService(store, store, cache, cfg.CacheTTL),
		Hotels:         app.NewHotelService(store, uploader, cache),
		Auth:           app.NewAuthService(store, password.New(0)),
		Booking:        app.NewBookingService(store, store),
		Views:          views,
		Production:     cfg.Production(),
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Health: func(r *http.Request) error {
			if err := client.Ping(r.Context(), readpref.Primary()); err != nil {
				return err
			}
			return cache.Ping(r.Context())
		},
	}

	// http
	srv := server.New(sessions.Middleware)
	srv.MountHandlers(h)
	srv.Mount("/metrics", observability.MetricsHandler(reg))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
