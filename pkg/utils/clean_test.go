package utils

import (
	"testing"
)

func TestCleanJsonBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON",
			input:    `{"location": "Toronto"}`,
			expected: `{"location": "Toronto"}`,
		},
		{
			name:     "JSON in markdown code block",
			input:    "```json\n{\"location\": \"Toronto\"}\n```",
			expected: `{"location": "Toronto"}`,
		},
		{
			name:     "JSON with mixed case",
			input:    "```JSON\n{\"city\": \"Chicago\"}\n```",
			expected: `{"city": "Chicago"}`,
		},
		{
			name:     "JSON with only triple backticks",
			input:    "```\n{\"city\": \"Chicago\"}\n```",
			expected: `{"city": "Chicago"}`,
		},
		{
			name:     "JSON with extra whitespace",
			input:    "  ```json  \n  {\"key\": \"value\"}  \n  ```  ",
			expected: `{"key": "value"}`,
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJsonBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJsonBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello"},
		{"zero max keeps input", "hello", 0, "hello"},
		{"multibyte runes", "привет мир", 6, "привет"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

func TestOneLine(t *testing.T) {
	got := OneLine("error, status code: 404,\n  message:   not found ")
	want := "error, status code: 404, message: not found"
	if got != want {
		t.Errorf("OneLine() = %q, want %q", got, want)
	}
}
