package rank

import (
	"context"
	"fmt"
	"strings"

	"resume-rank/internal/extract"
	"resume-rank/internal/index"
	"resume-rank/internal/llm"
)

// Reasoner is the reasoning backend boundary: a prompt in, free-form text
// out. Treated as unreliable; every response is parsed defensively.
type Reasoner interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Retriever supplies the most relevant text windows for a query within a
// session.
type Retriever interface {
	Query(ctx context.Context, sessionID, queryText string, k int) ([]index.Chunk, error)
}

// Classifier turns a job description into a SkillSet and each candidate's
// text into a SkillAnalysis.
type Classifier struct {
	reasoner      Reasoner
	retriever     Retriever
	fullTextLimit int // below this, the full resume goes into the prompt
	retrievalK    int
}

func NewClassifier(reasoner Reasoner, retriever Retriever, fullTextLimit int) *Classifier {
	if fullTextLimit <= 0 {
		fullTextLimit = 8000
	}
	return &Classifier{
		reasoner:      reasoner,
		retriever:     retriever,
		fullTextLimit: fullTextLimit,
		retrievalK:    8,
	}
}

const candidatePromptTemplate = `Analyze this resume against the job requirements. Differentiate between skills that are:
1. DEMONSTRATED - concrete evidence of applied use: projects, roles, achievements
2. MENTIONED - named without practical evidence, e.g. only in a skills list

Resume:
%s

Required Skills: %s
Preferred Skills: %s

Return a JSON object with this exact structure:
{
    "demonstrated_skills": ["skill1", "skill2"],
    "mentioned_skills": ["skill1", "skill2"],
    "years_experience": 0,
    "experience_summary": "Brief summary of relevant experience",
    "match_explanation": "How well the candidate matches and why"
}

Be strict: only list a skill as demonstrated with clear evidence in projects,
work history, or achievements. Skills listed without context are mentioned.
Estimate years_experience from the narrative; use 0 if unclear.
Return ONLY the JSON object, no other text.`

// Analyze classifies one candidate. The resume text goes in whole when it is
// short enough; otherwise the most relevant chunks for the skill list are
// retrieved from the session's index.
func (c *Classifier) Analyze(ctx context.Context, sessionID string, doc extract.Document, skills SkillSet) (SkillAnalysis, error) {
	text := c.candidateContext(ctx, sessionID, doc)

	prompt := fmt.Sprintf(candidatePromptTemplate,
		text,
		strings.Join(skills.Required, ", "),
		strings.Join(skills.Preferred, ", "),
	)

	response, err := llm.Retry(ctx, 2, func() (string, error) {
		return c.reasoner.Generate(ctx, prompt)
	})
	if err != nil {
		return SkillAnalysis{}, fmt.Errorf("analyze candidate %s: %w", doc.ID, err)
	}

	var analysis SkillAnalysis
	if err := llm.ParseJSONObject(response, &analysis); err != nil {
		return SkillAnalysis{}, fmt.Errorf("analyze candidate %s: %w", doc.ID, err)
	}

	return normalizeAnalysis(analysis, skills), nil
}

// candidateContext picks what resume text the reasoning service sees.
func (c *Classifier) candidateContext(ctx context.Context, sessionID string, doc extract.Document) string {
	if len(doc.Text) <= c.fullTextLimit {
		return doc.Text
	}

	var retrieved []string
	if c.retriever != nil {
		// One retrieval across the session, filtered to this candidate.
		chunks, err := c.retriever.Query(ctx, sessionID, "skills experience projects achievements", c.retrievalK*4)
		if err == nil {
			for _, ch := range chunks {
				if ch.DocumentID != doc.ID {
					continue
				}
				retrieved = append(retrieved, ch.Text)
				if len(retrieved) >= c.retrievalK {
					break
				}
			}
		}
	}
	if len(retrieved) > 0 {
		return strings.Join(retrieved, "\n\n")
	}
	// Retrieval unavailable: truncated full text is still better than nothing.
	return doc.Text[:c.fullTextLimit]
}

// DegradedAnalysis is the fallback when a candidate's classification fails:
// every skill missing, zero experience, explanation notes the failure.
func DegradedAnalysis(skills SkillSet) SkillAnalysis {
	return SkillAnalysis{
		Demonstrated:      []string{},
		Mentioned:         []string{},
		Missing:           skills.All(),
		YearsExperience:   0,
		ExperienceSummary: "Analysis failed",
		MatchExplanation:  "extraction error",
	}
}

// normalizeAnalysis enforces the set invariants: demonstrated and mentioned
// are disjoint (demonstrated wins), missing is everything requested that
// appears in neither, and years are non-negative.
func normalizeAnalysis(a SkillAnalysis, skills SkillSet) SkillAnalysis {
	demonstrated := dedupeSkills(a.Demonstrated, nil)
	mentioned := dedupeSkills(a.Mentioned, demonstrated)

	present := make(map[string]bool, len(demonstrated)+len(mentioned))
	for _, s := range demonstrated {
		present[strings.ToLower(s)] = true
	}
	for _, s := range mentioned {
		present[strings.ToLower(s)] = true
	}

	missing := []string{}
	for _, s := range skills.All() {
		if !present[strings.ToLower(s)] {
			missing = append(missing, s)
		}
	}

	years := a.YearsExperience
	if years < 0 {
		years = 0
	}

	return SkillAnalysis{
		Demonstrated:      demonstrated,
		Mentioned:         mentioned,
		Missing:           missing,
		YearsExperience:   years,
		ExperienceSummary: a.ExperienceSummary,
		MatchExplanation:  a.MatchExplanation,
	}
}
