package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(answer string, err error) (Capability, *[]string) {
	var prompts []string
	return CapabilityFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return answer, err
	}), &prompts
}

func TestClassifyTrue(t *testing.T) {
	capability, prompts := stub("true", nil)
	c, err := New(capability, Options{MinInterval: -1})
	require.NoError(t, err)

	relevant, err := c.Classify(context.Background(), "AI model released", "")

	require.NoError(t, err)
	assert.True(t, relevant)
	require.Len(t, *prompts, 1)
	assert.Contains(t, (*prompts)[0], `Title: "AI model released"`)
	assert.Contains(t, (*prompts)[0], `Summary: "No summary available."`)
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		answer  string
		want    bool
		wantErr bool
	}{
		{"Yes", true, false},
		{" yes.\n", true, false},
		{"TRUE", true, false},
		{"No.", false, false},
		{"\"no\"", false, false},
		{"false", false, false},
		{"Maybe", false, true},
		{"", false, true},
		{"Yes, it is about AI", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got, err := Interpret(tt.answer)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifySurfacesRateLimit(t *testing.T) {
	capability, prompts := stub("", ErrRateLimited)
	c, err := New(capability, Options{MinInterval: -1})
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "Title", "Summary")

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Len(t, *prompts, 1, "no retry")
}

func TestCustomPrompt(t *testing.T) {
	capability, prompts := stub("no", nil)
	c, err := New(capability, Options{Prompt: "{{.Title}} | {{.Summary}}", MinInterval: -1})
	require.NoError(t, err)

	relevant, err := c.Classify(context.Background(), "Rain", "Wet weekend")

	require.NoError(t, err)
	assert.False(t, relevant)
	assert.Equal(t, "Rain | Wet weekend", (*prompts)[0])
}

func TestBadPromptTemplate(t *testing.T) {
	_, err := New(CapabilityFunc(nil), Options{Prompt: "{{.Title"})
	assert.Error(t, err)
}

func TestClassifyWaitsBetweenCalls(t *testing.T) {
	var calls []time.Time
	capability := CapabilityFunc(func(context.Context, string) (string, error) {
		calls = append(calls, time.Now())
		return "yes", nil
	})
	c, err := New(capability, Options{MinInterval: 80 * time.Millisecond})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.Classify(context.Background(), "Title", "")
		require.NoError(t, err)
	}

	require.Len(t, calls, 3)
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), 70*time.Millisecond)
	assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), 70*time.Millisecond)
}

func TestClassifyHonoursContextWhileGated(t *testing.T) {
	capability, prompts := stub("yes", nil)
	c, err := New(capability, Options{MinInterval: time.Hour})
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), "First", "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Classify(ctx, "Second", "")

	assert.Error(t, err)
	assert.False(t, Skippable(err))
	assert.Len(t, *prompts, 1)
}

func TestSkippable(t *testing.T) {
	assert.True(t, Skippable(ErrTransient))
	assert.True(t, Skippable(errors.Join(errors.New("x"), ErrMalformed)))
	assert.False(t, Skippable(context.Canceled))
	assert.False(t, Skippable(errors.New("boom")))
}
