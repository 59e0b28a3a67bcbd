package cli

import (
	"bufio"
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_explain "github.com/opencloze/opencloze/internal/mocks/explain"
	"github.com/opencloze/opencloze/internal/round"
	"github.com/opencloze/opencloze/internal/testutil"
)

func newTestRoundCLI(t *testing.T, input string) (*RoundCLI, *bytes.Buffer) {
	t.Helper()

	userDir, store, progressLedger := testutil.NewUserDir(t, "spa", testutil.SpanishRecords())
	engine := round.NewEngine(store, progressLedger,
		round.WithRand(rand.New(rand.NewSource(1))),
		round.WithClock(func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }),
	)

	state, err := engine.Start(context.Background(), round.Config{
		Language:       "Spanish",
		LanguageCode:   "spa",
		Set:            "100",
		NumSentences:   3,
		BlankCount:     1,
		SequentialFrom: 1,
		SequentialTo:   3,
	})
	require.NoError(t, err)

	output := &bytes.Buffer{}
	roundCLI := NewRoundCLI(engine, nil, state, userDir)
	roundCLI.stdinReader = bufio.NewReader(strings.NewReader(input))
	roundCLI.stdoutWriter = output
	return roundCLI, output
}

func TestRoundCLI_PrintQuestion(t *testing.T) {
	color.NoColor = true
	roundCLI, output := newTestRoundCLI(t, "")

	roundCLI.PrintQuestion(roundCLI.state.CurrentItem())

	got := output.String()
	assert.Contains(t, got, "3 sentences left")
	assert.Contains(t, got, "difficulty percentile]")
	assert.Contains(t, got, "_____")
	assert.Contains(t, got, "English: The cat drinks milk.")
	// Spanish has registered special characters and this round is not
	// multiple choice.
	assert.Contains(t, got, "Characters to copy:")
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		0:   "0th",
		1:   "1st",
		2:   "2nd",
		3:   "3rd",
		4:   "4th",
		11:  "11th",
		12:  "12th",
		13:  "13th",
		21:  "21st",
		73:  "73rd",
		100: "100th",
	}
	for n, want := range tests {
		assert.Equal(t, want, ordinal(n))
	}
}

func TestRoundCLI_Session(t *testing.T) {
	color.NoColor = true

	t.Run("quit suspends the round", func(t *testing.T) {
		roundCLI, output := newTestRoundCLI(t, "quit\n")

		err := roundCLI.Session(context.Background())
		assert.ErrorIs(t, err, errEnd)
		assert.Contains(t, output.String(), "Round suspended")

		resumed, err := roundCLI.engine.Resume()
		require.NoError(t, err)
		assert.Len(t, resumed.Remaining, 3)
	})

	t.Run("correct answer advances the round", func(t *testing.T) {
		roundCLI, output := newTestRoundCLI(t, "")
		item := roundCLI.state.CurrentItem()
		require.Len(t, item.Cloze.Blanks, 1)
		roundCLI.stdinReader = bufio.NewReader(strings.NewReader(item.Cloze.Blanks[0].Word + "\n"))

		err := roundCLI.Session(context.Background())
		require.NoError(t, err)
		assert.Contains(t, output.String(), "Correct")
		assert.Len(t, roundCLI.state.Remaining, 2)
	})

	t.Run("wrong answer shows the expected words", func(t *testing.T) {
		roundCLI, output := newTestRoundCLI(t, "zzz\n")

		err := roundCLI.Session(context.Background())
		require.NoError(t, err)
		assert.Contains(t, output.String(), "Wrong")
		// without a configured client there is no explanation offer
		assert.NotContains(t, output.String(), "Explain?")
		assert.NotContains(t, output.String(), "Explanation:")
		assert.Len(t, roundCLI.state.Remaining, 3)
	})

	t.Run("wrong answer explains on demand", func(t *testing.T) {
		roundCLI, output := newTestRoundCLI(t, "zzz\ny\n")
		explainClient := mock_explain.NewMockClient(gomock.NewController(t))
		explainClient.EXPECT().
			Explain(gomock.Any(), gomock.Any()).
			Return("Bebe is the third person of beber.", nil)
		roundCLI.explainClient = explainClient

		err := roundCLI.Session(context.Background())
		require.NoError(t, err)
		assert.Contains(t, output.String(), "Explain? [y/N]:")
		assert.Contains(t, output.String(), "Explanation: Bebe is the third person of beber.")
	})

	t.Run("declined explanation is not fetched", func(t *testing.T) {
		roundCLI, output := newTestRoundCLI(t, "zzz\n\n")
		explainClient := mock_explain.NewMockClient(gomock.NewController(t))
		roundCLI.explainClient = explainClient

		err := roundCLI.Session(context.Background())
		require.NoError(t, err)
		assert.Contains(t, output.String(), "Explain? [y/N]:")
		assert.NotContains(t, output.String(), "Explanation:")
	})

	t.Run("mnemonic command records without answering", func(t *testing.T) {
		roundCLI, output := newTestRoundCLI(t, ":mnemonic cats drink milk\n")

		err := roundCLI.Session(context.Background())
		require.NoError(t, err)
		assert.Contains(t, output.String(), "Mnemonic saved.")
		assert.Equal(t, "cats drink milk", roundCLI.state.CurrentItem().Record.Mnemonic)
	})
}
