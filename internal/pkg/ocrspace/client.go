// Package ocrspace extracts text from images and PDFs through the OCR.space API.
package ocrspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const maxErrorBody = 16 << 10

var (
	ErrNotConfigured = exception.ApplicationError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "ocr_not_configured",
		Message:    "ocr credentials are not configured",
	}
	ErrUpstream = exception.ApplicationError{
		StatusCode: http.StatusBadGateway,
		Code:       "ocr_error",
		Message:    "text extraction failed",
	}
)

type Config struct {
	BaseURL    string
	APIKey     string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
}

func NewClient(config Config) *Client {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	language := config.Language
	if language == "" {
		language = "eng"
	}

	return &Client{
		baseURL:  strings.TrimRight(config.BaseURL, "/"),
		apiKey:   config.APIKey,
		language: language,
		client:   client,
	}
}

type parsedResult struct {
	ParsedText string `json:"ParsedText"`
}

type parseResponse struct {
	ParsedResults         []parsedResult  `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// ParseFile uploads content and returns the text of every parsed page joined by newlines.
func (c *Client) ParseFile(ctx context.Context, fileName string, content []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for field, value := range map[string]string{
		"language":          c.language,
		"isOverlayRequired": "false",
		"scale":             "true",
		"OCREngine":         "2",
	} {
		if err := writer.WriteField(field, value); err != nil {
			return "", fmt.Errorf("write field %s: %w", field, err)
		}
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}

	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse/image", &body)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", ErrUpstream.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return "", ErrUpstream.WithCause(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", ErrUpstream.WithCause(fmt.Errorf("decode ocr response: %w", err))
	}

	if parsed.IsErroredOnProcessing {
		return "", ErrUpstream.WithCause(errors.New(errorMessage(parsed.ErrorMessage)))
	}

	pages := make([]string, 0, len(parsed.ParsedResults))
	for _, result := range parsed.ParsedResults {
		if text := strings.TrimSpace(result.ParsedText); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n"), nil
}

// errorMessage reads the vendor error field, which is either a string or a list of strings.
func errorMessage(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single
	}

	return "ocr processing failed"
}
