package rank

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"resume-rank/internal/extract"
	"resume-rank/internal/session"
)

// Ranker orchestrates a ranking request: one skill extraction, then bounded
// parallel per-candidate classification, then scoring and ordering.
type Ranker struct {
	classifier *Classifier
	weights    Weights

	workers          int
	candidateTimeout time.Duration

	// OnProgress, when set, observes the monotonically increasing count of
	// classified candidates. Presentation of progress is the caller's
	// concern.
	OnProgress func(done, total int)
}

func NewRanker(classifier *Classifier, weights Weights, workers int, candidateTimeout time.Duration) *Ranker {
	if workers <= 0 {
		workers = 3
	}
	if candidateTimeout <= 0 {
		candidateTimeout = 2 * time.Minute
	}
	return &Ranker{
		classifier:       classifier,
		weights:          weights,
		workers:          workers,
		candidateTimeout: candidateTimeout,
	}
}

// Rank scores every successfully extracted candidate in the session against
// the job description. Per-candidate failures degrade that candidate only;
// an unextractable skill set degrades everyone to zero without failing the
// request. Cancelling ctx abandons in-flight classifications; candidates
// already scored keep their results.
func (r *Ranker) Rank(ctx context.Context, sess *session.Session, jobDescription string) (*RankingResponse, error) {
	start := time.Now()

	docs := sess.SuccessfulDocuments()
	if len(docs) == 0 {
		return nil, ErrNoCandidates
	}

	skills, err := r.classifier.ExtractSkillSet(ctx, jobDescription)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Empty or unextractable skill set: every candidate scores zero.
		log.Printf("[Rank] skill extraction degraded: %v", err)
		if !errors.Is(err, ErrEmptySkillSet) {
			log.Printf("[Rank] reasoning backend failed on job description, ranking with empty skill set")
		}
		skills = SkillSet{}
	}
	log.Printf("[Rank] skill set: %d required, %d preferred", len(skills.Required), len(skills.Preferred))

	results := make([]RankedResult, len(docs))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	var done atomic.Int64

	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc extract.Document) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = r.buildResult(doc, DegradedAnalysis(skills), skills, 0)
				return
			}
			defer func() { <-sem }()

			candStart := time.Now()
			analysis := r.classifyOne(ctx, sess.ID, doc, skills)
			results[i] = r.buildResult(doc, analysis, skills, time.Since(candStart).Seconds())

			n := int(done.Add(1))
			if r.OnProgress != nil {
				r.OnProgress(n, len(docs))
			}
			log.Printf("[Rank] scored %s: %.3f (%d/%d)", doc.Name, results[i].OverallScore, n, len(docs))
		}(i, doc)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	SortResults(results)

	return &RankingResponse{
		SkillSet:          skills,
		TotalCandidates:   len(results),
		ProcessingSeconds: time.Since(start).Seconds(),
		RankedCandidates:  results,
	}, nil
}

func (r *Ranker) classifyOne(ctx context.Context, sessionID string, doc extract.Document, skills SkillSet) SkillAnalysis {
	if skills.Empty() {
		return DegradedAnalysis(skills)
	}

	candCtx, cancel := context.WithTimeout(ctx, r.candidateTimeout)
	defer cancel()

	analysis, err := r.classifier.Analyze(candCtx, sessionID, doc, skills)
	if err != nil {
		log.Printf("[Rank] classification degraded for %s: %v", doc.SourceFile, err)
		return DegradedAnalysis(skills)
	}
	return analysis
}

func (r *Ranker) buildResult(doc extract.Document, analysis SkillAnalysis, skills SkillSet, elapsed float64) RankedResult {
	return RankedResult{
		CandidateID:       doc.ID,
		CandidateName:     doc.Name,
		SourceFile:        doc.SourceFile,
		OverallScore:      r.weights.Score(analysis, skills),
		SkillAnalysis:     analysis,
		ProcessingSeconds: elapsed,
	}
}
