package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(content []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: pdf: %v", ErrMalformedDocument, rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrMalformedDocument, err)
	}
	return joinPages(pdfReader.NumPage(), func(pageNum int) (string, error) {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			return "", nil
		}
		return page.GetPlainText(nil)
	}), nil
}

// joinPages concatenates pages 1..numPages without a separator. Pages that
// fail to extract are skipped.
func joinPages(numPages int, pageText func(pageNum int) (string, error)) string {
	var textBuilder strings.Builder
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		text, err := pageText(pageNum)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
	}
	return textBuilder.String()
}
