package rank

// SkillSet is what a job description asks for: required skills carry full
// weight, preferred skills half. Ordered, unique, immutable per request.
type SkillSet struct {
	Required  []string `json:"required_skills"`
	Preferred []string `json:"preferred_skills"`
}

// All returns required then preferred skills in order.
func (s SkillSet) All() []string {
	out := make([]string, 0, len(s.Required)+len(s.Preferred))
	out = append(out, s.Required...)
	return append(out, s.Preferred...)
}

// Total is the number of distinct skills the job asks for.
func (s SkillSet) Total() int {
	return len(s.Required) + len(s.Preferred)
}

// Empty reports whether the job description yielded no skills at all.
func (s SkillSet) Empty() bool {
	return s.Total() == 0
}

// SkillAnalysis is the per-candidate classification result. Demonstrated and
// mentioned are disjoint; missing is everything asked for that appears in
// neither.
type SkillAnalysis struct {
	Demonstrated      []string `json:"demonstrated_skills"`
	Mentioned         []string `json:"mentioned_skills"`
	Missing           []string `json:"missing_skills"`
	YearsExperience   float64  `json:"years_experience"`
	ExperienceSummary string   `json:"experience_summary"`
	MatchExplanation  string   `json:"match_explanation"`
}

// RankedResult is one candidate's position in the final ordering.
// Recomputable from inputs; never persisted as authoritative state.
type RankedResult struct {
	Rank              int           `json:"rank"`
	CandidateID       string        `json:"candidate_id"`
	CandidateName     string        `json:"candidate_name"`
	SourceFile        string        `json:"source_file"`
	OverallScore      float64       `json:"overall_score"`
	SkillAnalysis     SkillAnalysis `json:"skill_analysis"`
	ProcessingSeconds float64       `json:"processing_seconds"`
}

// RankingResponse carries the ordered results plus the SkillSet they were
// scored against, for transparency.
type RankingResponse struct {
	SkillSet          SkillSet       `json:"skill_set"`
	TotalCandidates   int            `json:"total_candidates"`
	ProcessingSeconds float64        `json:"processing_time_seconds"`
	RankedCandidates  []RankedResult `json:"ranked_candidates"`
}
