package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"example.com/marketplace/app/internal/config"
	domproduct "example.com/marketplace/app/internal/domain/product"
	"example.com/marketplace/app/internal/infra/cache"
	"example.com/marketplace/app/internal/infra/persistence/mysql"
	"example.com/marketplace/app/internal/infra/security"
	apihttp "example.com/marketplace/app/internal/interface/http"
	cartuc "example.com/marketplace/app/internal/usecase/cart"
	categoryuc "example.com/marketplace/app/internal/usecase/category"
	productuc "example.com/marketplace/app/internal/usecase/product"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := config.Load()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalw("mysql open failed", "error", err)
	}
	defer db.Close()

	var productRepo domproduct.Repository = mysql.NewProductRepository(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productRepo = cache.NewProductRepository(productRepo, rdb, cfg.CacheTTL, log)
		log.Infow("listing cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	api := apihttp.NewAPI(apihttp.Dependencies{
		ProductService:  productuc.NewService(productRepo),
		CategoryService: categoryuc.NewService(mysql.NewCategoryRepository(db)),
		CartSessions:    cartuc.NewSessions(),
		SessionService:  security.NewSessionService(cfg.SessionSecret, cfg.SessionTTL),
		Logger:          log,
	})

	router := api.Router()

	router.Get("/health/mysql", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "mysql ping error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write([]byte("mysql ok"))
	})

	router.Get("/health/pg", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		conn, err := pgx.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			http.Error(w, "pg connect error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer conn.Close(ctx)
		if err := conn.Ping(ctx); err != nil {
			http.Error(w, "pg ping error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write([]byte("pg ok"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	log.Infow("listening", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalw("server stopped", "error", err)
	}
}
