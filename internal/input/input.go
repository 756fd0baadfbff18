// Package input turns uploaded résumé and job description files into text.
// Only plain text is decoded; binary document formats are rejected with a
// request to paste their content instead.
package input

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/spigell/resume-refiner/internal/validation"
)

// MaxFileSize is the largest accepted upload, 2 MiB.
const MaxFileSize = 2 << 20

const (
	mediaText = "text/plain"
	mediaPDF  = "application/pdf"
	mediaDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

const (
	msgTooLarge    = "File size must be less than 2MB"
	msgUnsupported = "Please upload a .txt, .pdf, or .docx file"
	msgPDF         = "PDF parsing is not supported. Please copy and paste the content into the text field instead."
	msgDOCX        = "DOCX parsing is not supported. Please copy and paste the content into the text field instead."
	msgNotText     = "The file does not contain plain text. Please copy and paste the content instead."
)

var (
	allowedExtensions = []string{".txt", ".pdf", ".docx"}
	allowedMediaTypes = []string{mediaText, mediaPDF, mediaDOCX}
)

// File is an uploaded file. MediaType is the declared type and may be empty.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Validate checks the size first and then the extension and media type. It
// never looks at the content.
func Validate(f File) error {
	if len(f.Data) > MaxFileSize {
		return validation.New("file", validation.KindTooLarge, msgTooLarge)
	}

	if !contains(allowedExtensions, f.extension()) && !contains(allowedMediaTypes, f.baseMediaType()) {
		return validation.New("file", validation.KindUnsupported, msgUnsupported)
	}

	return nil
}

// ExtractText returns the text of a plain-text file unchanged.
func ExtractText(f File) (string, error) {
	if len(f.Data) == 0 {
		return "", nil
	}

	ext := f.extension()
	declared := f.baseMediaType()
	sniffed := mimetype.Detect(f.Data)

	switch {
	case ext == ".pdf" || declared == mediaPDF || sniffed.Is(mediaPDF):
		return "", validation.New("file", validation.KindUnsupported, msgPDF)
	case ext == ".docx" || strings.Contains(declared, "document") || sniffed.Is(mediaDOCX):
		return "", validation.New("file", validation.KindUnsupported, msgDOCX)
	case ext == ".txt" || declared == mediaText:
		if !isText(sniffed) {
			return "", validation.New("file", validation.KindUnsupported, msgNotText)
		}
		return string(f.Data), nil
	default:
		return "", validation.New("file", validation.KindUnsupported, msgUnsupported)
	}
}

// Load validates f and extracts its text.
func Load(f File) (string, error) {
	if err := Validate(f); err != nil {
		return "", err
	}
	return ExtractText(f)
}

// ReadFile reads at most one byte past MaxFileSize from path so oversized
// files are still reported as too large. The media type is sniffed from the
// content; any text content is declared as text/plain.
func ReadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	data, err := io.ReadAll(io.LimitReader(fh, MaxFileSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}

	return File{
		Name:      filepath.Base(path),
		MediaType: sniffMediaType(data),
		Data:      data,
	}, nil
}

// sniffMediaType reports any text subtype (csv, html, ...) as plain text so
// the accept decision does not depend on what the prose happens to look like.
func sniffMediaType(data []byte) string {
	detected := mimetype.Detect(data)
	if isText(detected) {
		return mediaText
	}
	return detected.String()
}

func (f File) extension() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

func (f File) baseMediaType() string {
	if f.MediaType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(f.MediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(f.MediaType))
	}
	return mediaType
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(mediaText) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
