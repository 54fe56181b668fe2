package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/anthropic"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/document"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/intent"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/utils"
)

const (
	toolSummaryOffers    = 3
	expenseWindow        = 90 * 24 * time.Hour
	codeTemperature      = 0.1
	codeGenerationPrompt = `You are a senior software engineer. Answer with working code in a single fenced
block followed by at most three sentences of explanation. Prefer the language the user names.`
)

type OfferSearcher interface {
	SearchOffers(ctx context.Context, params dto.SearchParams) (dto.SearchOffersResponse, error)
}

type ExpenseReader interface {
	TotalsByCategory(ctx context.Context, userID string, since time.Time) ([]dto.ExpenseCategoryTotal, error)
}

// ToolService backs the tool endpoints the chat router calls.
type ToolService struct {
	Offers   OfferSearcher
	Model    LanguageModel
	Expenses ExpenseReader
	now      func() time.Time
}

func NewToolService(offers OfferSearcher, model LanguageModel, expenses ExpenseReader) *ToolService {
	return &ToolService{
		Offers:   offers,
		Model:    model,
		Expenses: expenses,
		now:      time.Now,
	}
}

func (s *ToolService) FlightSearch(ctx context.Context, req dto.ToolRequest) (dto.ToolResult, error) {
	params, err := intent.ExtractFlightQuery(req.Message, s.now())
	if err != nil {
		return dto.ToolResult{}, err
	}

	if err := params.Validate(); err != nil {
		return dto.ToolResult{}, err
	}

	resp, err := s.Offers.SearchOffers(ctx, params)
	if err != nil {
		return dto.ToolResult{}, err
	}

	return dto.ToolResult{
		Tool:    intent.FlightSearch.Tool(),
		Summary: summarizeOffers(params, resp.Offers),
		Data:    resp,
	}, nil
}

func summarizeOffers(params dto.SearchParams, offers []dto.Offer) string {
	route := fmt.Sprintf("%s to %s on %s", params.Origin, params.Destination, params.DepartureDate)
	if len(offers) == 0 {
		return "No offers found for " + route + "."
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d offers found for %s.", len(offers), route)

	for i, offer := range offers {
		if i == toolSummaryOffers {
			break
		}

		fmt.Fprintf(&b, "\n%d. %s %s, %d stops, %s",
			i+1, offer.Owner.Name, offer.Price.Formatted, offer.TotalStops, utils.ConvertMinutesToDuration(int64(offer.TotalDurationMinutes)))
	}

	return b.String()
}

func (s *ToolService) CodeGeneration(ctx context.Context, req dto.ToolRequest) (dto.ToolResult, error) {
	temperature := codeTemperature

	resp, err := s.Model.CreateMessage(ctx, anthropic.MessageRequest{
		System:      codeGenerationPrompt,
		Messages:    []anthropic.Message{{Role: anthropic.RoleUser, Content: req.Message}},
		Temperature: &temperature,
	})
	if err != nil {
		return dto.ToolResult{}, fmt.Errorf("generate code: %w", err)
	}

	return dto.ToolResult{
		Tool:    intent.CodeGeneration.Tool(),
		Summary: resp.Text,
	}, nil
}

func (s *ToolService) DocumentProcessing(_ context.Context, req dto.ToolRequest) (dto.ToolResult, error) {
	fields := document.ExtractFields(req.Message)

	var found []string

	if fields.CompanyName != nil {
		found = append(found, "company "+*fields.CompanyName)
	}

	if fields.Budget != nil {
		found = append(found, fmt.Sprintf("budget %.2f", *fields.Budget))
	}

	if fields.Industry != nil {
		found = append(found, "industry "+*fields.Industry)
	}

	if fields.EmployeeCount != nil {
		found = append(found, fmt.Sprintf("%d employees", *fields.EmployeeCount))
	}

	summary := "No business fields found in the message."
	if len(found) > 0 {
		summary = "Extracted " + strings.Join(found, ", ") + "."
	}

	return dto.ToolResult{
		Tool:    intent.DocumentProcessing.Tool(),
		Summary: summary,
		Data: dto.DocumentResult{
			MimeType: "text/plain",
			Text:     req.Message,
			Fields:   fields,
			Language: document.DetectLanguage(req.Message),
		},
	}, nil
}

func (s *ToolService) ExpenseAnalysis(ctx context.Context, req dto.ToolRequest) (dto.ToolResult, error) {
	if req.UserID == "" {
		return dto.ToolResult{}, ErrUserIDRequired
	}

	if s.Expenses == nil {
		return dto.ToolResult{}, ErrExpensesNotConfigured
	}

	totals, err := s.Expenses.TotalsByCategory(ctx, req.UserID, s.now().Add(-expenseWindow))
	if err != nil {
		return dto.ToolResult{}, fmt.Errorf("load expenses: %w", err)
	}

	return dto.ToolResult{
		Tool:    intent.ExpenseAnalysis.Tool(),
		Summary: summarizeExpenses(totals),
		Data:    totals,
	}, nil
}

func summarizeExpenses(totals []dto.ExpenseCategoryTotal) string {
	if len(totals) == 0 {
		return "No expenses recorded in the last 90 days."
	}

	parts := make([]string, 0, len(totals))
	for _, t := range totals {
		parts = append(parts, fmt.Sprintf("%s %.2f %s (%d)", t.Category, t.Total, t.Currency, t.Count))
	}

	return "Expenses in the last 90 days by category: " + strings.Join(parts, "; ") + "."
}
