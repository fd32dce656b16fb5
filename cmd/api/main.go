package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"resume-rank/internal/api"
	"resume-rank/internal/config"
	"resume-rank/internal/index"
)

// @title Resume Ranking API
// @version 1.0
// @description Ranks candidate resumes against a job description by distinguishing demonstrated from merely mentioned skills.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.LoadConfig()

	embedder := index.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbeddingModel)
	store, err := index.NewStore(cfg.DatabasePath, embedder, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatal("vector store open:", err)
	}
	defer store.Close()

	log.Println("Vector store ready at", cfg.DatabasePath)

	apiSrv := api.NewAPI(cfg, store)
	router := api.NewRouter(apiSrv)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				apiSrv.SweepSessions(sweepCtx, ttl)
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,  // file uploads
		WriteTimeout: 15 * time.Minute,  // LLM classification of a full batch
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println("server shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}
