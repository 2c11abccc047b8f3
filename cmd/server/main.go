package main

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/remind"
	"github.com/sandaclub/hub/internal/web"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Init DB (creates clubhub.db in working dir unless DB_PATH is set)
	if err := db.Init(); err != nil {
		logger.Fatal("db init", zap.Error(err))
	}
	remind.StartLoop(logger)

	r := web.Router(logger)

	addr := getEnv("ADDR", ":8080")
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
