// Package ingestion extracts plain text from uploaded resume documents.
// Extraction is best effort: a readable but low-quality document yields
// whatever text can be pulled out, possibly nothing. Only a buffer that
// cannot even be opened produces an error.
package ingestion

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported MIME types for resume uploads.
const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"
)

// MinTextLength is the minimum number of non-whitespace characters for
// extracted text to count as usable.
const MinTextLength = 10

// ErrUnsupportedType indicates an upload with a MIME type the extractor
// cannot attempt.
type ErrUnsupportedType struct {
	MimeType string
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MimeType)
}

// ExtractText pulls plain text out of a document buffer based on its
// declared MIME type.
func ExtractText(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MimePlain:
		return string(data), nil
	case MimePDF:
		return extractPDFText(data)
	case MimeDOCX:
		return extractDocxText(data)
	default:
		return "", &ErrUnsupportedType{MimeType: mimeType}
	}
}

// TooShort reports whether extracted text has fewer than MinTextLength
// non-whitespace characters and should be treated as "no text extracted".
func TooShort(text string) bool {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
			if count >= MinTextLength {
				return false
			}
		}
	}
	return true
}

// PDFPlaceholder returns the synthetic text substituted for a PDF whose text
// could not be extracted (typically a scan). The pipeline proceeds with this
// placeholder instead of rejecting the upload.
func PDFPlaceholder(filename string) string {
	return fmt.Sprintf("Resume from file: %s. Please note this PDF may contain text as images which cannot be extracted.", filename)
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages that fail individually are skipped; best effort.
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripDocxTags(doc.Editable().GetContent()), nil
}

// stripDocxTags flattens the raw document XML into plain text.
func stripDocxTags(content string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteRune(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
