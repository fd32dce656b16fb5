package rank

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-rank/internal/extract"
	"resume-rank/internal/session"
)

// routingReasoner answers by prompt content and is safe for the ranker's
// concurrent per-candidate calls.
type routingReasoner struct {
	mu       sync.Mutex
	skillSet string
	byMarker map[string]string // substring of prompt -> response
	fallback string
}

func (r *routingReasoner) Generate(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if strings.Contains(prompt, "job description") {
		return r.skillSet, nil
	}
	for marker, resp := range r.byMarker {
		if strings.Contains(prompt, marker) {
			return resp, nil
		}
	}
	return r.fallback, nil
}

func newTestSession(texts map[string]string) *session.Session {
	store := session.NewStore()
	var docs []extract.Document
	for name, text := range texts {
		status := extract.StatusSuccess
		if text == "" {
			status = extract.StatusFailed
		}
		docs = append(docs, extract.Document{
			ID:         "id-" + name,
			Name:       name,
			SourceFile: name + ".pdf",
			Text:       text,
			Status:     status,
		})
	}
	return store.Create(docs)
}

func TestRankDegradedCandidateDoesNotBlockOthers(t *testing.T) {
	reasoner := &routingReasoner{
		skillSet: `{"required_skills": ["Go", "Docker"], "preferred_skills": []}`,
		byMarker: map[string]string{
			"alice resume": `{"demonstrated_skills": ["Go", "Docker"], "mentioned_skills": [], "years_experience": 5}`,
			"bob resume":   `not json at all`,
		},
	}
	c := NewClassifier(reasoner, nil, 0)
	ranker := NewRanker(c, DefaultWeights(), 2, time.Minute)

	sess := newTestSession(map[string]string{
		"Alice": "alice resume",
		"Bob":   "bob resume",
	})

	resp, err := ranker.Rank(context.Background(), sess, "We need a Go engineer with Docker experience.")
	require.NoError(t, err)
	require.Equal(t, 2, resp.TotalCandidates)

	assert.Equal(t, "Alice", resp.RankedCandidates[0].CandidateName)
	assert.Equal(t, 1, resp.RankedCandidates[0].Rank)
	assert.Greater(t, resp.RankedCandidates[0].OverallScore, 0.0)

	// Bob degrades: all skills missing, zero score, still ranked.
	bob := resp.RankedCandidates[1]
	assert.Equal(t, "Bob", bob.CandidateName)
	assert.Equal(t, 2, bob.Rank)
	assert.Equal(t, 0.0, bob.OverallScore)
	assert.Equal(t, []string{"Go", "Docker"}, bob.SkillAnalysis.Missing)
}

func TestRankEmptySkillSetScoresEveryoneZero(t *testing.T) {
	reasoner := &routingReasoner{
		skillSet: `{"required_skills": [], "preferred_skills": []}`,
		fallback: `{"demonstrated_skills": ["Go"], "mentioned_skills": []}`,
	}
	c := NewClassifier(reasoner, nil, 0)
	ranker := NewRanker(c, DefaultWeights(), 2, time.Minute)

	sess := newTestSession(map[string]string{"Alice": "alice resume", "Bob": "bob resume"})

	resp, err := ranker.Rank(context.Background(), sess, "a vague job description with no skills")
	require.NoError(t, err)
	for _, r := range resp.RankedCandidates {
		assert.Equal(t, 0.0, r.OverallScore)
	}
}

func TestRankNoCandidates(t *testing.T) {
	reasoner := &routingReasoner{skillSet: `{"required_skills": ["Go"], "preferred_skills": []}`}
	c := NewClassifier(reasoner, nil, 0)
	ranker := NewRanker(c, DefaultWeights(), 2, time.Minute)

	sess := newTestSession(map[string]string{"Broken": ""})

	_, err := ranker.Rank(context.Background(), sess, "We need a Go engineer for this role.")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestRankProgressMonotonic(t *testing.T) {
	reasoner := &routingReasoner{
		skillSet: `{"required_skills": ["Go"], "preferred_skills": []}`,
		fallback: `{"demonstrated_skills": ["Go"], "mentioned_skills": [], "years_experience": 1}`,
	}
	c := NewClassifier(reasoner, nil, 0)
	ranker := NewRanker(c, DefaultWeights(), 2, time.Minute)

	var mu sync.Mutex
	var seen []int
	ranker.OnProgress = func(done, total int) {
		mu.Lock()
		seen = append(seen, done)
		mu.Unlock()
	}

	sess := newTestSession(map[string]string{
		"A": "resume a", "B": "resume b", "C": "resume c",
	})

	_, err := ranker.Rank(context.Background(), sess, "We need a Go engineer for this role.")
	require.NoError(t, err)

	require.Len(t, seen, 3)
	assert.ElementsMatch(t, []int{1, 2, 3}, seen)
}

func TestRankCancellation(t *testing.T) {
	reasoner := &routingReasoner{
		skillSet: `{"required_skills": ["Go"], "preferred_skills": []}`,
		fallback: `{"demonstrated_skills": [], "mentioned_skills": []}`,
	}
	c := NewClassifier(reasoner, nil, 0)
	ranker := NewRanker(c, DefaultWeights(), 1, time.Minute)

	sess := newTestSession(map[string]string{"A": "resume a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ranker.Rank(ctx, sess, "We need a Go engineer for this role.")
	assert.ErrorIs(t, err, context.Canceled)
}
