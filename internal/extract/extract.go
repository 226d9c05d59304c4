package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeText = "text/plain"
)

var (
	// ErrUnsupportedFormat is returned for bytes that are neither a known
	// document format nor valid UTF-8 text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrMalformedDocument is returned when a PDF or DOCX cannot be parsed.
	ErrMalformedDocument = errors.New("malformed document")
)

// Document is one uploaded file.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Extract returns the document's text, dispatching on its media type.
// Types other than PDF and DOCX are decoded as UTF-8 text.
func Extract(doc Document) (string, error) {
	switch mediaType(doc.MIMEType) {
	case TypePDF:
		return extractPDF(doc.Data)
	case TypeDOCX:
		return extractDOCX(doc.Data)
	default:
		return extractText(doc.Data)
	}
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: content is not valid UTF-8 text", ErrUnsupportedFormat)
	}
	return string(data), nil
}

// DetectType resolves the media type used by Extract. A declared type wins
// unless it is empty or the generic octet-stream; then the extension and
// finally the content decide.
func DetectType(name, declared string, data []byte) string {
	if mt := mediaType(declared); mt != "" && mt != "application/octet-stream" {
		return mt
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	case ".txt", ".md":
		return TypeText
	}
	return mediaType(mimetype.Detect(data).String())
}

// mediaType strips parameters such as charset.
func mediaType(v string) string {
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return mt
}
