package explain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/opencloze/opencloze/internal/explain"
	mock_explain "github.com/opencloze/opencloze/internal/mocks/explain"
)

func TestExplainOrFallback(t *testing.T) {
	request := explain.ExplainRequest{
		Language:    "Spanish",
		English:     "The bird sings.",
		Translation: "El pájaro canta.",
	}

	tests := []struct {
		name      string
		configure func(client *mock_explain.MockClient)
		want      string
	}{
		{
			name: "passes through a generated explanation",
			configure: func(client *mock_explain.MockClient) {
				client.EXPECT().
					Explain(gomock.Any(), request).
					Return("Canta is the third person of cantar.", nil)
			},
			want: "Canta is the third person of cantar.",
		},
		{
			name: "degrades to the fallback message on error",
			configure: func(client *mock_explain.MockClient) {
				client.EXPECT().
					Explain(gomock.Any(), request).
					Return("", errors.New("response error 500"))
			},
			want: explain.FallbackMessage,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_explain.NewMockClient(ctrl)
			test.configure(client)

			got := explain.ExplainOrFallback(context.Background(), client, request)
			assert.Equal(t, test.want, got)
		})
	}
}
