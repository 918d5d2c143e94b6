package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText([]byte("John Doe\njohn@x.com"), MimePlain)
	require.NoError(t, err)
	assert.Equal(t, "John Doe\njohn@x.com", text)
}

func TestExtractText_UnsupportedType(t *testing.T) {
	_, err := ExtractText([]byte("data"), "image/png")
	require.Error(t, err)

	var unsupported *ErrUnsupportedType
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "image/png", unsupported.MimeType)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"), MimePDF)
	assert.Error(t, err)
}

func TestExtractText_CorruptDocx(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a docx"), MimeDOCX)
	assert.Error(t, err)
}

func TestTooShort(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		short bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"nine characters", "ninechars", true},
		{"ten characters", "exactly10c", false},
		{"ten characters spread across whitespace", "a b c d e f g h i j", false},
		{"real text", "John Doe, Software Engineer", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.short, TooShort(tt.text))
		})
	}
}

func TestPDFPlaceholder(t *testing.T) {
	placeholder := PDFPlaceholder("resume.pdf")
	assert.Contains(t, placeholder, "resume.pdf")
	assert.False(t, TooShort(placeholder))
}

func TestStripDocxTags(t *testing.T) {
	content := `<w:p><w:r><w:t>John Doe</w:t></w:r></w:p><w:p><w:r><w:t>Engineer</w:t></w:r></w:p>`
	text := stripDocxTags(content)
	assert.Contains(t, text, "John Doe")
	assert.Contains(t, text, "Engineer")
	assert.False(t, strings.Contains(text, "<"))
}
