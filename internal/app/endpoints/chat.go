package endpoints

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

type ChatService interface {
	Chat(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error)
}

type ChatEndpoint struct {
	Chat endpoint.Endpoint
}

func MakeChatEndpoint(service ChatService) ChatEndpoint {
	return ChatEndpoint{
		Chat: func(ctx context.Context, req interface{}) (interface{}, error) {
			request, ok := req.(*dto.ChatRequest)
			if !ok || request == nil {
				return nil, errInvalidType
			}

			resp, err := service.Chat(ctx, *request)
			if err != nil {
				return nil, fmt.Errorf("chat service: %w", err)
			}

			return resp, nil
		},
	}
}
