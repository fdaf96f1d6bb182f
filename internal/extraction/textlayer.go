package extraction

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

var (
	xmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	spaceRunPattern   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRunPattern = regexp.MustCompile(`\n{3,}`)
)

// DetectMIME resolves a document's MIME type from the declared type or the file extension.
func DetectMIME(declared, fileName string) string {
	declared = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	switch declared {
	case MIMEPDF, MIMEDOCX, MIMEText, MIMEPNG, MIMEJPEG:
		return declared
	case "image/jpg":
		return MIMEJPEG
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDOCX
	case ".txt", ".md":
		return MIMEText
	case ".png":
		return MIMEPNG
	case ".jpg", ".jpeg":
		return MIMEJPEG
	}
	return declared
}

// canOCR reports whether the vision model accepts the MIME type.
func canOCR(mimeType string) bool {
	switch mimeType {
	case MIMEPDF, MIMEPNG, MIMEJPEG:
		return true
	}
	return false
}

// ExtractTextLayer reads the document's embedded text. Images have no text layer and
// yield "" with no error.
func ExtractTextLayer(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MIMEPDF:
		return extractPDF(data)
	case MIMEDOCX:
		return extractDOCX(data)
	case MIMEText:
		return string(data), nil
	case MIMEPNG, MIMEJPEG:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported document type %q", mimeType)
	}
}

// extractPDF concatenates the plain text of each page, one page per block.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return normalizeWhitespace(sb.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	content = xmlTagPattern.ReplaceAllString(content, "")
	return normalizeWhitespace(unescapeXML(content)), nil
}

func unescapeXML(s string) string {
	return strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'",
	).Replace(s)
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceRunPattern.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = newlineRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
