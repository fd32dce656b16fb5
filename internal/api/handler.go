package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"resume-rank/internal/config"
	"resume-rank/internal/extract"
	"resume-rank/internal/imaging"
	"resume-rank/internal/index"
	"resume-rank/internal/llm"
	"resume-rank/internal/rank"
	"resume-rank/internal/session"
)

type API struct {
	cfg       *config.Config
	sessions  *session.Store
	extractor *extract.Extractor
	store     *index.Store
	ranker    *rank.Ranker
}

func NewAPI(cfg *config.Config, store *index.Store) *API {
	normalizer := imaging.NewNormalizer()
	ocr := extract.NewTesseractBackend(cfg.OCRLanguages)

	extractor := extract.NewExtractor(normalizer, ocr, extract.Options{
		Workers:      cfg.ExtractWorkers,
		MaxTextChars: cfg.MaxTextChars,
		PDFRenderDPI: cfg.PDFRenderDPI,
	})

	reasoner := llm.NewService(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel, cfg.OllamaBaseURL)
	classifier := rank.NewClassifier(reasoner, store, cfg.FullTextLimit)

	weights := rank.Weights{
		Demonstrated: cfg.DemonstratedWeight,
		Mentioned:    cfg.MentionedWeight,
		Experience:   cfg.ExperienceWeight,
		YearsCap:     cfg.ExperienceCapYears,
	}
	ranker := rank.NewRanker(classifier, weights, cfg.ClassifyWorkers,
		time.Duration(cfg.ClassifyTimeoutS)*time.Second)

	return &API{
		cfg:       cfg,
		sessions:  session.NewStore(),
		extractor: extractor,
		store:     store,
		ranker:    ranker,
	}
}

// SweepSessions expires sessions older than ttl, dropping their index
// entries with them. Run periodically; see cmd/api.
func (a *API) SweepSessions(ctx context.Context, ttl time.Duration) {
	for _, id := range a.sessions.SweepExpired(ttl) {
		if err := a.store.DeleteSession(ctx, id); err != nil {
			log.Printf("[API] failed to delete index entries for expired session %s: %v", id, err)
		}
		log.Printf("[API] session %s expired after %v", id, ttl)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
