package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"resume-rank/internal/rank"
)

// RankRequest asks for the candidates of a session to be ranked against a
// job description.
type RankRequest struct {
	JobDescription string `json:"job_description"`
	SessionID      string `json:"session_id"`
}

// RankHandler ranks every candidate in a session against a job description.
// @Summary Rank candidates
// @Description Classify each candidate's skills against the job description and return a weighted ranking
// @Tags ranking
// @Accept json
// @Produce json
// @Param request body RankRequest true "Job description and session id"
// @Success 200 {object} rank.RankingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/rank [post]
func (a *API) RankHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(strings.TrimSpace(req.JobDescription)) < 20 {
		writeError(w, http.StatusBadRequest, "job description too short (min 20 characters)")
		return
	}

	sess, ok := a.sessions.Get(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session id")
		return
	}

	result, err := a.ranker.Rank(r.Context(), sess, req.JobDescription)
	if err != nil {
		switch {
		case errors.Is(err, rank.ErrNoCandidates):
			writeError(w, http.StatusBadRequest, "session has no extracted candidates")
		default:
			writeError(w, http.StatusInternalServerError, "ranking failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
