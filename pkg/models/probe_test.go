package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/llm"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider отвечает ошибкой, заданной для модели.
type scriptedProvider struct {
	errs      map[string]error
	seenModel []string
	seenMax   []int
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	params := llm.Apply(llm.GenerateOptions{}, opts)
	p.seenModel = append(p.seenModel, params.Model)
	p.seenMax = append(p.seenMax, params.MaxTokens)
	if err := p.errs[params.Model]; err != nil {
		return llm.Message{}, err
	}
	return llm.Message{Role: llm.RoleAssistant, Content: "hello"}, nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status ProbeStatus
	}{
		{"success", nil, StatusWorks},
		{"api code model_not_found", fmt.Errorf("openai api error: %w", &openai.APIError{Code: "model_not_found", Message: "nope"}), StatusNoAccess},
		{"access text", errors.New("The project does not have access to model gpt-4"), StatusNoAccess},
		{"quota code", &openai.APIError{Code: "insufficient_quota", Message: "You exceeded your current quota"}, StatusNoCredits},
		{"quota text", errors.New("429: insufficient_quota"), StatusNoCredits},
		{"other", errors.New("dial tcp: connection refused"), StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, Classify("gpt-4", tt.err).Status)
		})
	}
}

func TestClassify_DetailTruncated(t *testing.T) {
	res := Classify("gpt-4", errors.New(strings.Repeat("x", 80)))
	assert.Equal(t, StatusError, res.Status)
	assert.Len(t, res.Detail, 50)
	assert.Equal(t, "✗ gpt-4 - Error: "+strings.Repeat("x", 50), res.String())
}

func TestProbe(t *testing.T) {
	provider := &scriptedProvider{errs: map[string]error{
		"gpt-3.5-turbo": errors.New("model_not_found"),
		"gpt-4":         &openai.APIError{Code: "insufficient_quota"},
	}}
	probe := config.ProbeConfig{}
	probe = probe.GetDefaults()

	var streamed []string
	results := Probe(context.Background(), provider, ProbeOptions{
		Models:    probe.Models,
		Prompt:    probe.Prompt,
		MaxTokens: probe.MaxTokens,
	}, func(r ProbeResult) { streamed = append(streamed, r.String()) })

	require.Len(t, results, 5)
	assert.Equal(t, probe.Models, provider.seenModel)
	assert.Equal(t, []int{5, 5, 5, 5, 5}, provider.seenMax)
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo"}, Working(results))
	assert.Equal(t, "✗ gpt-3.5-turbo - No access", streamed[0])
	assert.Equal(t, "✓ gpt-4o-mini - WORKS!", streamed[1])
	assert.Equal(t, "⚠ gpt-4 - No credits (need to add payment)", streamed[4])

	var buf bytes.Buffer
	WriteSummary(&buf, results)
	assert.Contains(t, buf.String(), "Models you can use:")
	assert.Contains(t, buf.String(), "  • gpt-4o\n")
	assert.Contains(t, buf.String(), "Recommendation: Use 'gpt-4o-mini'")
}

func TestWriteSummary_NoneWorking(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, []ProbeResult{{Model: "gpt-4", Status: StatusNoCredits}})

	out := buf.String()
	assert.Contains(t, out, "No models are working!")
	assert.Contains(t, out, "1. API key is invalid")
	assert.Contains(t, out, BillingURL)
}

func TestProbe_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{}
	results := Probe(ctx, provider, ProbeOptions{Models: []string{"a", "b"}}, nil)
	assert.Empty(t, results)
	assert.Empty(t, provider.seenModel)
}
