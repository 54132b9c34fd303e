package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
)

// BillingURL - страница биллинга OpenAI для раздела диагностики.
const BillingURL = "https://platform.openai.com/settings/organization/billing"

// ProbeStatus - исход пробного запроса к модели.
type ProbeStatus int

const (
	StatusWorks ProbeStatus = iota
	StatusNoAccess
	StatusNoCredits
	StatusError
)

func (s ProbeStatus) String() string {
	switch s {
	case StatusWorks:
		return "works"
	case StatusNoAccess:
		return "no_access"
	case StatusNoCredits:
		return "no_credits"
	default:
		return "error"
	}
}

// ProbeResult - результат проверки одной модели.
type ProbeResult struct {
	Model  string
	Status ProbeStatus
	Detail string // первые 50 символов ошибки для StatusError
}

// String форматирует строку отчета.
func (r ProbeResult) String() string {
	switch r.Status {
	case StatusWorks:
		return fmt.Sprintf("✓ %s - WORKS!", r.Model)
	case StatusNoAccess:
		return fmt.Sprintf("✗ %s - No access", r.Model)
	case StatusNoCredits:
		return fmt.Sprintf("⚠ %s - No credits (need to add payment)", r.Model)
	default:
		return fmt.Sprintf("✗ %s - Error: %s", r.Model, r.Detail)
	}
}

// ProbeOptions - параметры пробного запроса.
type ProbeOptions struct {
	Models    []string
	Prompt    string
	MaxTokens int
}

// Probe последовательно отправляет короткий запрос каждой модели
// и классифицирует ответ. onResult (может быть nil) вызывается сразу
// после каждой модели для потокового вывода.
func Probe(ctx context.Context, provider llm.Provider, opts ProbeOptions, onResult func(ProbeResult)) []ProbeResult {
	results := make([]ProbeResult, 0, len(opts.Models))

	for _, model := range opts.Models {
		if ctx.Err() != nil {
			break
		}

		_, err := provider.Generate(ctx,
			[]llm.Message{llm.NewUser(opts.Prompt)},
			llm.WithModel(model),
			llm.WithMaxTokens(opts.MaxTokens),
		)

		res := Classify(model, err)
		utils.Info("model probed", "model", model, "status", res.Status.String())
		results = append(results, res)
		if onResult != nil {
			onResult(res)
		}
	}
	return results
}

// Classify определяет статус модели по ошибке пробного запроса.
//
// Сначала смотрит на код *openai.APIError, затем на текст ошибки.
func Classify(model string, err error) ProbeResult {
	if err == nil {
		return ProbeResult{Model: model, Status: StatusWorks}
	}

	code := ""
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if s, ok := apiErr.Code.(string); ok {
			code = s
		}
	}
	msg := err.Error()

	switch {
	case code == "model_not_found" ||
		strings.Contains(msg, "model_not_found") ||
		strings.Contains(msg, "does not have access"):
		return ProbeResult{Model: model, Status: StatusNoAccess}
	case code == "insufficient_quota" || strings.Contains(msg, "insufficient_quota"):
		return ProbeResult{Model: model, Status: StatusNoCredits}
	default:
		return ProbeResult{Model: model, Status: StatusError, Detail: utils.Truncate(utils.OneLine(msg), 50)}
	}
}

// Working возвращает модели со статусом StatusWorks в порядке проверки.
func Working(results []ProbeResult) []string {
	var names []string
	for _, r := range results {
		if r.Status == StatusWorks {
			names = append(names, r.Model)
		}
	}
	return names
}

// WriteSummary печатает итог: список рабочих моделей и рекомендацию
// или чек-лист диагностики, если не работает ни одна.
func WriteSummary(w io.Writer, results []ProbeResult) {
	working := Working(results)

	if len(working) > 0 {
		fmt.Fprintln(w, "Models you can use:")
		for _, m := range working {
			fmt.Fprintf(w, "  • %s\n", m)
		}
		fmt.Fprintf(w, "\nRecommendation: Use '%s'\n", working[0])
		return
	}

	fmt.Fprintln(w, "⚠ No models are working!")
	fmt.Fprintln(w, "\nPossible issues:")
	fmt.Fprintln(w, "1. API key is invalid")
	fmt.Fprintln(w, "2. No payment method on file (OpenAI requires billing)")
	fmt.Fprintln(w, "3. Quota exceeded")
	fmt.Fprintf(w, "\nVisit: %s\n", BillingURL)
}
