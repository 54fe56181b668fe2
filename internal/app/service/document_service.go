package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/document"
)

const mimePDF = "application/pdf"

type TextExtractor interface {
	ParseFile(ctx context.Context, fileName string, content []byte) (string, error)
}

type DocumentService struct {
	OCR            TextExtractor
	MaxUploadBytes int64
}

func NewDocumentService(ocr TextExtractor, maxUploadBytes int64) *DocumentService {
	return &DocumentService{
		OCR:            ocr,
		MaxUploadBytes: maxUploadBytes,
	}
}

// ProcessDocument reads text out of an upload and extracts the business fields it mentions.
// Plain text is read as is; images and PDFs go through OCR.
func (s *DocumentService) ProcessDocument(ctx context.Context, upload dto.DocumentUpload) (dto.DocumentResult, error) {
	if len(upload.Content) == 0 {
		return dto.DocumentResult{}, ErrEmptyDocument
	}

	if s.MaxUploadBytes > 0 && int64(len(upload.Content)) > s.MaxUploadBytes {
		return dto.DocumentResult{}, ErrDocumentTooLarge
	}

	mtype := mimetype.Detect(upload.Content)

	var text string

	switch {
	case isText(mtype):
		text = string(upload.Content)
	case strings.HasPrefix(mtype.String(), "image/") || mtype.Is(mimePDF):
		extracted, err := s.OCR.ParseFile(ctx, upload.FileName, upload.Content)
		if err != nil {
			return dto.DocumentResult{}, fmt.Errorf("extract text: %w", err)
		}

		text = extracted
	default:
		return dto.DocumentResult{}, ErrUnsupportedDocument.WithMessage("unsupported document type " + mtype.String())
	}

	text = strings.TrimSpace(text)

	result := dto.DocumentResult{
		FileName: upload.FileName,
		MimeType: mtype.String(),
		Text:     text,
		Fields:   document.ExtractFields(text),
		Language: document.DetectLanguage(text),
	}

	slog.InfoContext(ctx, "document processed",
		slog.String("mime_type", result.MimeType),
		slog.Int("bytes", len(upload.Content)),
		slog.String("language", result.Language))

	return result, nil
}

// isText walks the detected type and its parents looking for text/plain.
func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}

	return false
}
