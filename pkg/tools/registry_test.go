package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	params JSONSchema
	exec   func(ctx context.Context, argsJSON string) (string, error)
}

func (s *stubTool) Definition() ToolDefinition {
	params := s.params
	if params == nil {
		params = JSONSchema{"type": "object", "properties": map[string]any{}}
	}
	return ToolDefinition{Name: s.name, Description: "stub", Parameters: params}
}

func (s *stubTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return s.exec(ctx, argsJSON)
}

type messagedErr struct{}

func (messagedErr) Error() string       { return "internal detail" }
func (messagedErr) ToolMessage() string { return "Weather API error: HTTP 500" }

func TestRegister_ValidatesDefinition(t *testing.T) {
	tests := []struct {
		name    string
		tool    *stubTool
		wantErr string
	}{
		{"empty name", &stubTool{name: ""}, "name cannot be empty"},
		{"wrong type", &stubTool{name: "x", params: JSONSchema{"type": "array"}}, "must be 'object'"},
		{"missing type", &stubTool{name: "x", params: JSONSchema{"properties": map[string]any{}}}, "'type' field"},
		{"bad required", &stubTool{name: "x", params: JSONSchema{"type": "object", "required": "city"}}, "must be an array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.tool)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{name: "a"}))
	assert.Error(t, r.Register(&stubTool{name: "a"}))
}

func TestGetDefinitions_SortedByName(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"get_weather_forecast", "find_tourist_attractions", "get_air_quality"} {
		require.NoError(t, r.Register(&stubTool{name: n, params: JSONSchema{
			"type":     "object",
			"required": []string{"location"},
		}}))
	}

	defs := r.GetDefinitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "find_tourist_attractions", defs[0].Name)
	assert.Equal(t, "get_air_quality", defs[1].Name)
	assert.Equal(t, "get_weather_forecast", defs[2].Name)
}

func TestInvoke(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{name: "ok", exec: func(ctx context.Context, args string) (string, error) {
		return "echo " + args, nil
	}}))
	require.NoError(t, r.Register(&stubTool{name: "plain_err", exec: func(ctx context.Context, args string) (string, error) {
		return "", errors.New("boom")
	}}))
	require.NoError(t, r.Register(&stubTool{name: "typed_err", exec: func(ctx context.Context, args string) (string, error) {
		return "", messagedErr{}
	}}))
	require.NoError(t, r.Register(&stubTool{name: "panics", exec: func(ctx context.Context, args string) (string, error) {
		panic("nil map")
	}}))

	ctx := context.Background()
	assert.Equal(t, `echo {"a":1}`, r.Invoke(ctx, "ok", `{"a":1}`))
	assert.Equal(t, "Error: boom", r.Invoke(ctx, "plain_err", "{}"))
	assert.Equal(t, "Weather API error: HTTP 500", r.Invoke(ctx, "typed_err", "{}"))
	assert.Equal(t, "Error: nil map", r.Invoke(ctx, "panics", "{}"))
	assert.Contains(t, r.Invoke(ctx, "missing", "{}"), "tool not found")
}

func TestInvokeResult_FailureFlag(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{name: "ok", exec: func(ctx context.Context, args string) (string, error) {
		return "Error-free weather", nil
	}}))
	require.NoError(t, r.Register(&stubTool{name: "typed_err", exec: func(ctx context.Context, args string) (string, error) {
		return "", messagedErr{}
	}}))
	require.NoError(t, r.Register(&stubTool{name: "panics", exec: func(ctx context.Context, args string) (string, error) {
		panic("nil map")
	}}))

	ctx := context.Background()
	tests := []struct {
		tool       string
		wantText   string
		wantFailed bool
	}{
		{"ok", "Error-free weather", false},
		{"typed_err", "Weather API error: HTTP 500", true},
		{"panics", "Error: nil map", true},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			text, failed := r.InvokeResult(ctx, tt.tool, "{}")
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantFailed, failed)
		})
	}

	_, failed := r.InvokeResult(ctx, "missing", "{}")
	assert.True(t, failed)
}

func TestErrorText_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("context"), messagedErr{})
	assert.Equal(t, "Weather API error: HTTP 500", ErrorText(err))
}
