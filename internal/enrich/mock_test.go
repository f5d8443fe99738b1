package enrich

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

type mockApify struct{ mock.Mock }

func (m *mockApify) RunSync(ctx context.Context, actor string, input any) ([]json.RawMessage, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func items(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}
