package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecognizeName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain name on first line",
			text: "Jane Doe\nSenior Software Engineer\njane@example.com",
			want: "Jane Doe",
		},
		{
			name: "skips resume header",
			text: "Resume\nJohn Smith\nBackend Developer",
			want: "John Smith",
		},
		{
			name: "skips contact lines",
			text: "Email: nobody@example.com\nPhone: 555-0100\nMaria Garcia Lopez",
			want: "Maria Garcia Lopez",
		},
		{
			name: "normalizes OCR casing",
			text: "JANE DOE\nsome body text",
			want: "Jane Doe",
		},
		{
			name: "rejects lines with digits",
			text: "Agent 007\n12345 Main Street",
			want: "",
		},
		{
			name: "rejects long sentences",
			text: "An experienced engineer looking for new opportunities in cloud computing",
			want: "",
		},
		{
			name: "gives up after ten lines",
			text: "skills\nskills\nskills\nskills\nskills\nskills\nskills\nskills\nskills\nskills\nJane Doe",
			want: "",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecognizeName(tt.text))
		})
	}
}

func TestFallbackName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"jane_doe_resume.pdf", "Jane Doe"},
		{"a1b2c3d4_john-smith.docx", "John Smith"},
		{"maria-garcia-cv.pdf", "Maria Garcia"},
		{"candidate_final.docx", "Candidate"},
		{"report-v2.pdf", "Report"},
		{"/tmp/uploads/alice_wong.txt", "Alice Wong"},
		{"resume.pdf", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackName(tt.filename))
		})
	}
}
