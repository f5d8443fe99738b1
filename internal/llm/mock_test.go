package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"github.com/sells-group/leadscout/pkg/anthropic"
	"github.com/sells-group/leadscout/pkg/groq"
	"github.com/sells-group/leadscout/pkg/openai"
)

type mockAnthropic struct{ mock.Mock }

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type mockGroq struct{ mock.Mock }

func (m *mockGroq) ChatCompletion(ctx context.Context, req groq.ChatCompletionRequest) (*groq.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*groq.ChatCompletionResponse), args.Error(1)
}

type mockOpenAI struct{ mock.Mock }

func (m *mockOpenAI) CreateResponse(ctx context.Context, req openai.ResponseRequest) (*openai.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.Response), args.Error(1)
}

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) GenerateContent(ctx context.Context, modelName string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, modelName, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}
