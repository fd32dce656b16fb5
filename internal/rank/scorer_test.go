package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreWeightedFormula(t *testing.T) {
	weights := DefaultWeights()
	skills := SkillSet{
		Required:  []string{"Python", "Docker", "AWS"},
		Preferred: []string{"FastAPI"},
	}
	analysis := SkillAnalysis{
		Demonstrated:    []string{"Python", "FastAPI"},
		Mentioned:       []string{"Docker"},
		YearsExperience: 3,
	}

	// raw = 2*2.0 + 1*0.5 + min(3,5)*0.3 = 5.4
	// max = 4*2.0 + 5*0.3 = 9.5
	score := weights.Score(analysis, skills)
	assert.InDelta(t, 5.4/9.5, score, 1e-9)
}

func TestScoreExperienceCapped(t *testing.T) {
	weights := DefaultWeights()
	skills := SkillSet{Required: []string{"Go"}}

	capped := weights.Score(SkillAnalysis{YearsExperience: 5}, skills)
	over := weights.Score(SkillAnalysis{YearsExperience: 25}, skills)
	assert.Equal(t, capped, over)
}

func TestScoreBounds(t *testing.T) {
	weights := DefaultWeights()
	skills := SkillSet{Required: []string{"Go"}}

	// A candidate cannot exceed 1 even with extra freeform demonstrated skills.
	high := weights.Score(SkillAnalysis{
		Demonstrated:    []string{"Go", "Rust", "Zig", "C", "C++"},
		YearsExperience: 40,
	}, skills)
	assert.LessOrEqual(t, high, 1.0)
	assert.GreaterOrEqual(t, high, 0.0)

	low := weights.Score(SkillAnalysis{}, skills)
	assert.GreaterOrEqual(t, low, 0.0)
}

func TestScoreEmptySkillSetIsZero(t *testing.T) {
	weights := DefaultWeights()
	score := weights.Score(SkillAnalysis{
		Demonstrated:    []string{"Go"},
		YearsExperience: 10,
	}, SkillSet{})
	assert.Equal(t, 0.0, score)
}

func TestSortResultsTieBreaks(t *testing.T) {
	results := []RankedResult{
		{CandidateName: "Charlie", OverallScore: 0.5, SkillAnalysis: SkillAnalysis{Demonstrated: []string{"Go"}}},
		{CandidateName: "Alice", OverallScore: 0.5, SkillAnalysis: SkillAnalysis{Demonstrated: []string{"Go"}}},
		{CandidateName: "Bob", OverallScore: 0.5, SkillAnalysis: SkillAnalysis{Demonstrated: []string{"Go", "AWS"}}},
		{CandidateName: "Dave", OverallScore: 0.9},
	}
	SortResults(results)

	// Score first, then demonstrated count, then name.
	names := []string{results[0].CandidateName, results[1].CandidateName, results[2].CandidateName, results[3].CandidateName}
	assert.Equal(t, []string{"Dave", "Bob", "Alice", "Charlie"}, names)

	// Dense 1-based distinct ranks even with tied scores.
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestSortResultsDeterministic(t *testing.T) {
	build := func() []RankedResult {
		return []RankedResult{
			{CandidateName: "B", OverallScore: 0.4},
			{CandidateName: "A", OverallScore: 0.4},
			{CandidateName: "C", OverallScore: 0.7},
		}
	}

	first := build()
	SortResults(first)
	for i := 0; i < 10; i++ {
		again := build()
		SortResults(again)
		require.Equal(t, first, again)
	}
}
