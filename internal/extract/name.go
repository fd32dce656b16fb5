package extract

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var nameSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(resume|cv|curriculum)`),
	regexp.MustCompile(`(?i)^(phone|email|address|linkedin)`),
	regexp.MustCompile(`@`),
	regexp.MustCompile(`\d{5,}`),
	regexp.MustCompile(`(?i)^(objective|summary|experience|education|skills)`),
}

// RecognizeName scans the first lines of extracted text for something that
// looks like a person's name. Best-effort only; returns "" when nothing
// qualifies. The result is a display label, never an identity key.
func RecognizeName(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	checked := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len(line) < 3 {
			continue
		}
		checked++
		if checked > 10 {
			break
		}

		if matchesAny(line, nameSkipPatterns) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 1 || len(words) > 4 {
			continue
		}
		if hasDigit(line) {
			continue
		}
		if alphaRatio(line) <= 0.8 {
			continue
		}
		return titleCase(line)
	}
	return ""
}

// FallbackName derives a display label from the source filename: strips an
// id prefix and resume/cv suffixes, turns separators into spaces.
func FallbackName(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = regexp.MustCompile(`^[a-f0-9]{8}_`).ReplaceAllString(name, "")
	name = regexp.MustCompile(`(?i)[-_]?(resume|cv|final|v\d+)$`).ReplaceAllString(name, "")
	name = regexp.MustCompile(`[-_]+`).ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown"
	}
	return titleCase(name)
}

// titleCase uppercases the first letter of each word, matching how names are
// normally written regardless of how the OCR cased them.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func alphaRatio(s string) float64 {
	if s == "" {
		return 0
	}
	count := 0
	total := 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			count++
		}
	}
	return float64(count) / float64(total)
}
