package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

func extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrMalformedDocument, err)
	}
	for _, f := range r.File {
		if !strings.EqualFold(f.Name, "word/document.xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: docx: %v", ErrMalformedDocument, err)
		}
		defer rc.Close()

		paragraphs, err := bodyParagraphs(rc)
		if err != nil {
			return "", fmt.Errorf("%w: docx: %v", ErrMalformedDocument, err)
		}
		var b strings.Builder
		for _, p := range paragraphs {
			b.WriteString(p)
			b.WriteString("\n")
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("%w: docx: word/document.xml not found", ErrMalformedDocument)
}

// bodyParagraphs returns the text of each top-level body paragraph. Table
// cells, text boxes and paragraph properties are not part of the result.
func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		cur        strings.Builder
		inBody     bool
		tableDepth int
		paraDepth  int
		runDepth   int
		skipDepth  int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return paragraphs, nil
		}
		if err != nil {
			return nil, err
		}
		if skipDepth > 0 {
			switch t := tok.(type) {
			case xml.StartElement:
				if skippedElement(t.Name.Local) {
					skipDepth++
				}
			case xml.EndElement:
				if skippedElement(t.Name.Local) {
					skipDepth--
				}
			}
			continue
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "txbxContent", "Fallback":
				skipDepth = 1
				continue
			case "body":
				inBody = true
			case "tbl":
				tableDepth++
			case "p":
				if paraDepth > 0 {
					paraDepth++
				} else if inBody && tableDepth == 0 {
					cur.Reset()
					paraDepth = 1
				}
			case "r":
				if paraDepth > 0 {
					runDepth++
				}
			case "t":
				if paraDepth > 0 && runDepth > 0 {
					var text string
					if err := dec.DecodeElement(&text, &t); err != nil {
						return nil, err
					}
					cur.WriteString(text)
				}
			case "tab":
				if paraDepth > 0 && runDepth > 0 {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if paraDepth > 0 && runDepth > 0 {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "body":
				inBody = false
			case "tbl":
				tableDepth--
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "p":
				if paraDepth > 0 {
					paraDepth--
					if paraDepth == 0 {
						paragraphs = append(paragraphs, cur.String())
					}
				}
			}
		}
	}
}

// skippedElement reports whether name holds text boxes. Word writes each box
// twice, under mc:Choice and mc:Fallback.
func skippedElement(name string) bool {
	return name == "txbxContent" || name == "Fallback"
}
