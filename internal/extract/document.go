package extract

// Extraction status of a single document.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Upload is a raw uploaded file as delivered by the transport layer.
type Upload struct {
	Filename string
	Data     []byte
}

// Document is one extracted resume. Immutable once created; the ID is the
// identity key, the Name is a display label only.
type Document struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SourceFile string `json:"source_file"`
	Text       string `json:"-"`
	PageCount  int    `json:"page_count"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}
