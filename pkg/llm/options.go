// Package llm provides options pattern for LLM generation parameters.
package llm

// GenerateOptions holds parameters for LLM generation.
// Defaults come from config.yaml (ModelDef); options override them per call.
type GenerateOptions struct {
	// Model is the model identifier (e.g., "gpt-4o-mini")
	Model string

	// Temperature controls randomness in responses (0.0 = deterministic)
	Temperature float64

	// MaxTokens limits the response length, 0 = provider default
	MaxTokens int
}

// GenerateOption is a functional option for configuring GenerateOptions.
type GenerateOption func(*GenerateOptions)

// WithModel sets the model for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature sets the temperature for generation.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens sets the maximum tokens for generation.
func WithMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = tokens
	}
}

// Apply applies all GenerateOption values found in opts on top of base.
// Other values (tool definitions) are skipped.
func Apply(base GenerateOptions, opts []any) GenerateOptions {
	for _, opt := range opts {
		if fn, ok := opt.(GenerateOption); ok {
			fn(&base)
		}
	}
	return base
}
