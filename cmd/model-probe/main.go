// model-probe - проверяет, к каким моделям OpenAI есть доступ у ключа.
//
// Для каждой модели из probe.models отправляется короткий запрос
// ("Say 'hello'", max_tokens=5), результат классифицируется:
// WORKS, No access, No credits или Error.
//
// Использование:
//
//	go run ./cmd/model-probe
//	go run ./cmd/model-probe -models gpt-4o-mini,gpt-4o
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ilkoid/poncho-travel/pkg/app"
	"github.com/ilkoid/poncho-travel/pkg/factory"
	"github.com/ilkoid/poncho-travel/pkg/models"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml (по умолчанию автопоиск)")
	modelList := flag.String("models", "", "список моделей через запятую (перекрывает probe.models)")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer utils.SetupGracefulShutdown(cancel)()

	cfg, _, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		fail(err)
	}
	if err := cfg.RequireChatKey(); err != nil {
		fail(err)
	}

	opts := models.ProbeOptions{
		Models:    cfg.Probe.Models,
		Prompt:    cfg.Probe.Prompt,
		MaxTokens: cfg.Probe.MaxTokens,
	}
	if *modelList != "" {
		opts.Models = splitList(*modelList)
	}

	// Модель подменяется на каждый запрос через WithModel
	modelDef, _ := cfg.GetChatModel("")
	provider, err := factory.NewLLMProvider(modelDef)
	if err != nil {
		fail(err)
	}

	line := strings.Repeat("=", 60)
	fmt.Println(line)
	fmt.Println("Testing OpenAI Model Access")
	fmt.Println(line)
	fmt.Print("\nTesting models with a simple request...\n\n")

	results := models.Probe(ctx, provider, opts, func(r models.ProbeResult) {
		fmt.Println(r.String())
	})

	fmt.Println("\n" + line)
	models.WriteSummary(os.Stdout, results)
	fmt.Println(line)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fail(err error) {
	utils.Error("model-probe failed", "error", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	utils.Close()
	os.Exit(1)
}
