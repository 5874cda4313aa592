package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	auth "github.com/SnowLynxSoftware/auth-microservice-template"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := auth.LoadConfig()
	if err != nil {
		return err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()

	if err := createSchema(ctx, db); err != nil {
		return err
	}

	repo := auth.NewRepositoryManager(db)

	tokens, err := auth.NewTokenService(cfg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:      "auth-microservice",
		ErrorHandler: auth.HTTPErrorHandler(nil, !cfg.IsProduction()),
	})

	auth.RegisterAuthRoutes(app,
		auth.WithRepositoryManager(repo),
		auth.WithTokenService(tokens),
		auth.WithControllerActivitySink(auth.NewAuthLogSink(repo.AuthLogs())),
		auth.WithControllerDebug(!cfg.IsProduction()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
		log.Println("shutting down...")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*auth.AuthLog)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
