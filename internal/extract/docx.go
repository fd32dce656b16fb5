package extract

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
	"github.com/nguyenthenguyen/docx"
)

// extractDocx parses the document XML directly, concatenating visible run
// text in document order with one line per paragraph.
func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}
	defer doc.Close()

	return docxParagraphText(doc.Editable().GetContent()), nil
}

// docxParagraphText walks WordprocessingML content and collects the text of
// every <w:t> run, paragraph by paragraph.
func docxParagraphText(content string) string {
	var out []string
	for _, para := range strings.Split(content, "</w:p>") {
		var sb strings.Builder
		rest := para
		for {
			start := strings.Index(rest, "<w:t")
			if start < 0 {
				break
			}
			rest = rest[start:]
			if len(rest) < 5 {
				break
			}
			// "<w:t" also prefixes <w:tab/>, <w:tabs>, <w:tbl>, <w:tc> and
			// friends; only a '>', space, or '/' next means a text run.
			switch rest[4] {
			case '>', ' ', '/':
			default:
				// A tab separates visible text, so it survives as a space.
				if strings.HasPrefix(rest, "<w:tab/") {
					sb.WriteString(" ")
				}
				rest = rest[4:]
				continue
			}
			open := strings.Index(rest, ">")
			if open < 0 {
				break
			}
			// self-closing run, e.g. <w:t/>
			if strings.HasPrefix(rest[:open+1], "<w:t/") {
				rest = rest[open+1:]
				continue
			}
			rest = rest[open+1:]
			end := strings.Index(rest, "</w:t>")
			if end < 0 {
				break
			}
			sb.WriteString(unescapeXML(rest[:end]))
			rest = rest[end:]
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescapeXML(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return xmlUnescaper.Replace(s)
}

// extractLegacyDoc handles the older word-processor formats (.doc, .rtf,
// .odt) through docconv.
func extractLegacyDoc(filename string, data []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(filename), true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}
	return res.Body, nil
}
