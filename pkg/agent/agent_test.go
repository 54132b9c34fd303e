package agent

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/chain"
	"github.com/ilkoid/poncho-travel/pkg/events"
	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner запоминает входы и отвечает эхом последнего сообщения.
type recordingRunner struct {
	inputs []chain.ChainInput
	err    error
}

func (r *recordingRunner) Execute(ctx context.Context, in chain.ChainInput) (chain.ChainOutput, error) {
	r.inputs = append(r.inputs, in)
	if r.err != nil {
		return chain.ChainOutput{}, r.err
	}
	return chain.ChainOutput{Result: "plan: " + in.Messages[0].Content}, nil
}

func (r *recordingRunner) Stream(ctx context.Context, in chain.ChainInput) <-chan events.Event {
	r.inputs = append(r.inputs, in)
	ch := make(chan events.Event, 2)
	ch <- events.New(events.EventState, events.StateData{Messages: in.Messages})
	ch <- events.New(events.EventDone, events.MessageData{})
	close(ch)
	return ch
}

func drainLastState(t *testing.T, ch <-chan events.Event) llm.Message {
	t.Helper()
	var last llm.Message
	for ev := range ch {
		if s, ok := ev.Data.(events.StateData); ok {
			m, ok := s.Last()
			require.True(t, ok)
			last = m
		}
	}
	return last
}

func TestRun(t *testing.T) {
	r := &recordingRunner{}
	c := NewWithRunner(r, nil, nil)

	got, err := c.Run(context.Background(), "Toronto")
	require.NoError(t, err)
	assert.Equal(t, "plan: Toronto", got)
	require.Len(t, r.inputs, 1)
	assert.Equal(t, llm.RoleUser, r.inputs[0].Messages[0].Role)

	r.err = errors.New("boom")
	_, err = c.Run(context.Background(), "x")
	assert.EqualError(t, err, "boom")
	assert.Nil(t, c.Tools())
}

func TestTurn_WrapsInput(t *testing.T) {
	c := NewWithRunner(&recordingRunner{}, prompt.Default(), nil)

	ch, err := c.Turn(context.Background(), "Paris next week")
	require.NoError(t, err)
	msg := drainLastState(t, ch)
	assert.Contains(t, msg.Content, "Recommend clothing and masks (if AQI > 100).")
	assert.Contains(t, msg.Content, "User request: Paris next week")
}

func TestExample(t *testing.T) {
	c := NewWithRunner(&recordingRunner{}, nil, nil)

	ch, err := c.Example(context.Background())
	require.NoError(t, err)
	msg := drainLastState(t, ch)
	assert.Contains(t, msg.Content, "City1: Toronto 2025-01-31")
	assert.Contains(t, msg.Content, "City2: Chicago 2025-02-01")
}

func TestNew_MissingKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	chdirForTest(t, t.TempDir())

	_, err := New(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestStream_WritesDebugTrace(t *testing.T) {
	dir := t.TempDir()
	c := NewWithRunner(&recordingRunner{}, nil, nil)
	c.SetDebugDir(dir)

	msg := drainLastState(t, c.Stream(context.Background(), "Rome"))
	assert.Equal(t, "Rome", msg.Content)

	assert.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
