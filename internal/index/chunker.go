package index

import "strings"

// Chunk is a bounded slice of a document's text, the unit of semantic
// indexing. Never mutated after creation.
type Chunk struct {
	DocumentID string  `json:"document_id"`
	Index      int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity,omitempty"`
}

// SplitText cuts text into windows of roughly chunkSize characters with the
// given overlap, preferring whitespace boundaries so words stay intact.
// Original order is preserved; chunk indexes are dense from zero.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}

		cut := lastWhitespace(text[start:end])
		if cut <= overlap {
			// no usable boundary, hard cut
			cut = chunkSize
		}
		chunk := strings.TrimSpace(text[start : start+cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := start + cut - overlap
		if next <= start {
			next = start + cut
		}
		// Align the overlapped start to a word boundary so no chunk begins
		// mid-word.
		for next < start+cut && next > 0 && !isWhitespaceByte(text[next-1]) {
			next++
		}
		start = next
	}
	return chunks
}

func isWhitespaceByte(b byte) bool {
	switch b {
	case ' ', '\n', '\t', '\r':
		return true
	}
	return false
}

func lastWhitespace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ' ', '\n', '\t', '\r':
			return i
		}
	}
	return -1
}
