package endpoints

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

type DocumentService interface {
	ProcessDocument(ctx context.Context, upload dto.DocumentUpload) (dto.DocumentResult, error)
}

type DocumentEndpoint struct {
	ProcessDocument endpoint.Endpoint
}

func MakeDocumentEndpoint(service DocumentService) DocumentEndpoint {
	return DocumentEndpoint{
		ProcessDocument: func(ctx context.Context, req interface{}) (interface{}, error) {
			request, ok := req.(*dto.DocumentUpload)
			if !ok || request == nil {
				return nil, errInvalidType
			}

			result, err := service.ProcessDocument(ctx, *request)
			if err != nil {
				return nil, fmt.Errorf("document service: %w", err)
			}

			return dto.NewResponse(result), nil
		},
	}
}
