package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError indicates the uploaded document could not be read. It is
// terminal: there is no fallback for an unreadable document.
type ExtractionError struct {
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document extraction failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("document extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// ExtractPDFText pulls plain text out of a PDF document and cleans it.
// The parser panics on some malformed files, so this recovers and reports
// the panic as an extraction error.
func ExtractPDFText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ExtractionError{Reason: fmt.Sprintf("malformed PDF: %v", rec)}
		}
	}()
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Reason: "invalid PDF", Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Reason: "could not extract text", Cause: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &ExtractionError{Reason: "could not read extracted text", Cause: err}
	}

	text = CleanText(buf.String())
	if text == "" {
		return "", &ExtractionError{Reason: "document contains no extractable text"}
	}
	return text, nil
}

// ExtractResumeText returns clean resume text for an upload. PDF payloads go
// through text extraction; anything else is treated as plain text.
func ExtractResumeText(data []byte, contentType string) (string, error) {
	if isPDF(data, contentType) {
		return ExtractPDFText(bytes.NewReader(data), int64(len(data)))
	}

	text := CleanText(string(data))
	if text == "" {
		return "", &ExtractionError{Reason: "document contains no extractable text"}
	}
	return text, nil
}

func isPDF(data []byte, contentType string) bool {
	if strings.Contains(contentType, "application/pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
