package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/devtutor/backend/conf"
	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/gensrvc"
	"github.com/devtutor/backend/gradesrvc"
	"github.com/devtutor/backend/http"
	"github.com/devtutor/backend/progress"
)

func main() {
	// .env is optional; real deployments set the variables directly
	_ = godotenv.Load()

	cfg := conf.GetEngineFromEnv()

	root, err := fslab.NewRoot(cfg.RootDir)
	if err != nil {
		slog.Error("failed to open lab root", "error", err, "dir", cfg.RootDir)
		os.Exit(1)
	}
	progressStore, err := progress.NewStore(root.ProgressDir())
	if err != nil {
		slog.Error("failed to open progress store", "error", err)
		os.Exit(1)
	}

	gradeSrvc := gradesrvc.New(root, progressStore, cfg)
	httpServer := http.NewHttpServer(gradeSrvc, gensrvc.StaticGen{})

	log.Printf("Starting server on %s", cfg.HttpListenAddress)
	err = httpServer.Start(cfg.HttpListenAddress)
	log.Printf("Server stopped with error: %v", err)
}
