package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"
)

// Extractor converts stored document blobs into plain text, best
// effort. Unsupported types and extraction failures fall back to a
// short description the model can still work with.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Text(data []byte, fileType, fileName string) string {
	if len(data) == 0 {
		log.Warnf("file bytes are empty for file: %s", fileName)
		return ""
	}

	lower := strings.ToLower(fileType)
	switch {
	case strings.Contains(lower, "pdf"):
		return extractPDF(data, fileName)
	case strings.Contains(lower, "jpeg"), strings.Contains(lower, "png"):
		return extractImage(data, fileType, fileName)
	case strings.Contains(lower, "text/plain"):
		return string(data)
	default:
		return fallbackDescription(fileType, fileName)
	}
}

func extractPDF(data []byte, fileName string) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Errorf("failed to open PDF %s: %v", fileName, err)
		return fallbackDescription("application/pdf", fileName)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		log.Errorf("failed to extract text from PDF %s: %v", fileName, err)
		return fallbackDescription("application/pdf", fileName)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		log.Errorf("failed to read PDF text of %s: %v", fileName, err)
		return fallbackDescription("application/pdf", fileName)
	}
	return buf.String()
}

func extractImage(data []byte, fileType, fileName string) string {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		log.Errorf("failed to load image %s for OCR: %v", fileName, err)
		return fallbackDescription(fileType, fileName)
	}

	text, err := client.Text()
	if err != nil || strings.TrimSpace(text) == "" {
		log.Warnf("OCR produced no text for %s: %v", fileName, err)
		return fallbackDescription(fileType, fileName)
	}
	return text
}

func fallbackDescription(fileType, fileName string) string {
	if fileName == "" {
		fileName = "file"
	}
	return fmt.Sprintf("This file is of type %s with name %s. "+
		"Generate a short high-level description for a student.", fileType, fileName)
}
