package rank

import "errors"

var (
	// ErrEmptySkillSet means the job description yielded no extractable
	// skills. Callers degrade to zero scores rather than failing.
	ErrEmptySkillSet = errors.New("job description yields no extractable skills")

	// ErrNoCandidates means the session holds no successfully extracted
	// documents to rank.
	ErrNoCandidates = errors.New("no candidates available for ranking")
)
