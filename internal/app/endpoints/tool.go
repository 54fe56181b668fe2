package endpoints

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

type ToolService interface {
	FlightSearch(ctx context.Context, req dto.ToolRequest) (dto.ToolResult, error)
	CodeGeneration(ctx context.Context, req dto.ToolRequest) (dto.ToolResult, error)
	DocumentProcessing(ctx context.Context, req dto.ToolRequest) (dto.ToolResult, error)
	ExpenseAnalysis(ctx context.Context, req dto.ToolRequest) (dto.ToolResult, error)
}

type ToolEndpoint struct {
	FlightSearch       endpoint.Endpoint
	CodeGeneration     endpoint.Endpoint
	DocumentProcessing endpoint.Endpoint
	ExpenseAnalysis    endpoint.Endpoint
}

func MakeToolEndpoint(service ToolService) ToolEndpoint {
	return ToolEndpoint{
		FlightSearch:       makeToolEndpoint("flight-search", service.FlightSearch),
		CodeGeneration:     makeToolEndpoint("code-generation", service.CodeGeneration),
		DocumentProcessing: makeToolEndpoint("document-processing", service.DocumentProcessing),
		ExpenseAnalysis:    makeToolEndpoint("expense-analysis", service.ExpenseAnalysis),
	}
}

func makeToolEndpoint(name string, run func(context.Context, dto.ToolRequest) (dto.ToolResult, error)) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.ToolRequest)
		if !ok || request == nil {
			return nil, errInvalidType
		}

		result, err := run(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("%s tool: %w", name, err)
		}

		return dto.NewResponse(result), nil
	}
}
