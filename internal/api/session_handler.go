package api

import (
	"log"
	"net/http"
	"strings"
)

// SessionDeleteHandler destroys a session: its documents and its index
// entries.
// @Summary Delete session
// @Description Remove a session and all of its documents and index entries
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/sessions/{id} [delete]
func (a *API) SessionDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	if !a.sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "unknown session id")
		return
	}
	if err := a.store.DeleteSession(r.Context(), id); err != nil {
		log.Printf("[API] failed to delete index entries for session %s: %v", id, err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
