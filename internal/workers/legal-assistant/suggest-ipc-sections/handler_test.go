package suggestipcsections

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-workers/internal/common/logger"
	"legal-workers/internal/legal/ipc"
)

func newTestHandler(t *testing.T, topN int) *Handler {
	return NewHandler(&Config{Timeout: time.Second, TopN: topN}, ipc.NewDefaultGenerator(), logger.NewTestLogger(t))
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name      string
		input     Input
		wantOrder []string
		wantTop   []string
	}{
		{
			name:      "online scam",
			input:     Input{Description: "I was cheated in an online scam", CrimeType: "fraud"},
			wantOrder: []string{"IT Act 66", "420"},
			wantTop:   []string{"IT Act 66", "420"},
		},
		{
			name:      "theft with assault",
			input:     Input{Description: "They attack me and steal my wallet", CrimeType: "Robbery"},
			wantOrder: []string{"379", "351"},
			wantTop:   []string{"379", "351"},
		},
		{
			name:      "all rules",
			input:     Input{Description: "online fraud, assault and theft", CrimeType: "cybercrime"},
			wantOrder: []string{"379", "IT Act 66", "420", "351"},
			wantTop:   []string{"379", "IT Act 66", "420"},
		},
		{
			name:      "nothing matches",
			input:     Input{Description: "noise complaint", CrimeType: "nuisance"},
			wantOrder: []string{},
			wantTop:   []string{},
		},
	}

	h := newTestHandler(t, 3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)

			got := make([]string, 0, len(out.Suggestions))
			for _, s := range out.Suggestions {
				got = append(got, s.Section)
			}
			assert.Equal(t, tt.wantOrder, got)
			assert.Equal(t, tt.wantTop, out.TopSections)
		})
	}
}

func TestExecute_TopNBounds(t *testing.T) {
	h := newTestHandler(t, 1)
	out, err := h.Execute(context.Background(), &Input{Description: "online fraud", CrimeType: "fraud"})
	require.NoError(t, err)
	assert.Equal(t, []string{"IT Act 66"}, out.TopSections)
	assert.Len(t, out.Suggestions, 2)
}
