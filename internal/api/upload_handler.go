package api

import (
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"resume-rank/internal/extract"
)

// UploadResponse summarizes one upload batch.
type UploadResponse struct {
	SessionID      string             `json:"session_id"`
	FilesProcessed int                `json:"files_processed"`
	Documents      []extract.Document `json:"documents"`
}

// UploadHandler accepts resume files, extracts them, and ingests the batch
// into the semantic index under a fresh session.
// @Summary Upload resumes
// @Description Upload resume files (ZIP, PDF, DOCX, DOC, RTF, ODT, TXT, or images) for extraction and indexing
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Resume files"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} map[string]string
// @Router /api/resumes/upload [post]
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()
	maxBytes := int64(a.cfg.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or invalid multipart body")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	var uploads []extract.Upload
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file "+fh.Filename)
			return
		}
		uploads = append(uploads, extract.Upload{Filename: fh.Filename, Data: data})
	}

	docs := a.extractor.ExtractBatch(r.Context(), uploads)
	if allFailed(docs) {
		writeError(w, http.StatusBadRequest, "no documents could be extracted")
		return
	}

	sess := a.sessions.Create(docs)

	// Documents are independent; ingest them concurrently. An ingestion
	// failure is logged but does not fail the upload: ranking falls back to
	// the document's full text.
	var wg sync.WaitGroup
	for _, doc := range sess.SuccessfulDocuments() {
		wg.Add(1)
		go func(doc extract.Document) {
			defer wg.Done()
			if _, err := a.store.Ingest(r.Context(), sess.ID, doc.ID, doc.Text); err != nil {
				log.Printf("[API] ingestion failed for %s: %v", doc.SourceFile, err)
			}
		}(doc)
	}
	wg.Wait()

	log.Printf("[API] upload processed: %d file(s), session %s, took %v",
		len(docs), sess.ID, time.Since(start))

	writeJSON(w, http.StatusOK, UploadResponse{
		SessionID:      sess.ID,
		FilesProcessed: len(docs),
		Documents:      docs,
	})
}

func allFailed(docs []extract.Document) bool {
	for _, d := range docs {
		if d.Status != extract.StatusFailed {
			return false
		}
	}
	return true
}
