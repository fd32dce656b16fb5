package rank

import (
	"context"
	"fmt"
	"strings"

	"resume-rank/internal/llm"
)

const skillSetPromptTemplate = `Analyze this job description and extract the required and preferred skills.

Job Description:
%s

Return a JSON object with this exact structure:
{
    "required_skills": ["skill1", "skill2"],
    "preferred_skills": ["skill1", "skill2"]
}

Rules:
- Use short canonical skill names (e.g. "Kubernetes", not "experience with K8s clusters")
- required_skills are must-haves; preferred_skills are nice-to-haves
- Focus on technical skills, tools, technologies, and load-bearing soft skills
- Return ONLY the JSON object, no other text.`

// ExtractSkillSet derives the required/preferred skill lists from a job
// description. Skills are deduplicated case-insensitively, order as returned.
func (c *Classifier) ExtractSkillSet(ctx context.Context, jobDescription string) (SkillSet, error) {
	prompt := fmt.Sprintf(skillSetPromptTemplate, jobDescription)

	response, err := llm.Retry(ctx, 2, func() (string, error) {
		return c.reasoner.Generate(ctx, prompt)
	})
	if err != nil {
		return SkillSet{}, fmt.Errorf("extract skill set: %w", err)
	}

	var parsed SkillSet
	if err := llm.ParseJSONObject(response, &parsed); err != nil {
		return SkillSet{}, fmt.Errorf("extract skill set: %w", err)
	}

	skills := SkillSet{
		Required:  dedupeSkills(parsed.Required, nil),
		Preferred: dedupeSkills(parsed.Preferred, parsed.Required),
	}
	if skills.Empty() {
		return SkillSet{}, ErrEmptySkillSet
	}
	return skills, nil
}

// dedupeSkills removes case-insensitive duplicates while preserving order,
// also dropping anything already present in the exclude list.
func dedupeSkills(skills, exclude []string) []string {
	seen := make(map[string]bool, len(skills)+len(exclude))
	for _, s := range exclude {
		seen[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var out []string
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
