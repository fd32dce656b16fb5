package rank

import "sort"

// Weights configures the scoring formula. Demonstrated skills carry
// materially more weight than mentioned ones to reward verifiable
// experience over keyword-stuffing; the experience bonus is capped so it
// cannot dominate skill match.
type Weights struct {
	Demonstrated float64
	Mentioned    float64
	Experience   float64
	YearsCap     float64
}

// DefaultWeights mirrors the configuration defaults.
func DefaultWeights() Weights {
	return Weights{Demonstrated: 2.0, Mentioned: 0.5, Experience: 0.3, YearsCap: 5}
}

// Score computes the normalized overall score for one candidate:
//
//	raw = demonstrated*W_d + mentioned*W_m + min(years, cap)*W_e
//	max = (required+preferred)*W_d + cap*W_e
//
// clamped to [0,1]. An empty SkillSet scores 0 for every candidate.
func (w Weights) Score(analysis SkillAnalysis, skills SkillSet) float64 {
	maxPossible := float64(skills.Total())*w.Demonstrated + w.YearsCap*w.Experience
	if skills.Total() == 0 || maxPossible <= 0 {
		return 0
	}

	years := analysis.YearsExperience
	if years > w.YearsCap {
		years = w.YearsCap
	}
	raw := float64(len(analysis.Demonstrated))*w.Demonstrated +
		float64(len(analysis.Mentioned))*w.Mentioned +
		years*w.Experience

	score := raw / maxPossible
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// SortResults orders candidates for ranking: score descending, then
// demonstrated count descending, then candidate name ascending for full
// determinism. Rank numbers are dense 1-based positions; tied scores still
// receive distinct consecutive ranks.
func SortResults(results []RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		di := len(results[i].SkillAnalysis.Demonstrated)
		dj := len(results[j].SkillAnalysis.Demonstrated)
		if di != dj {
			return di > dj
		}
		return results[i].CandidateName < results[j].CandidateName
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}
