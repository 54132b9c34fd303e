// travel-planner - интерактивный планировщик путешествий.
//
// При старте печатает баннер, выполняет пример Toronto → Chicago
// и переходит в интерактивный режим (quit/exit/q для выхода).
//
// Использование:
//
//	go run ./cmd/travel-planner
//	go run ./cmd/travel-planner -skip-example -tui
//
// Переменные окружения (или .env):
//
//	OPENAI_API_KEY       - ключ OpenAI
//	GOOGLE_MAPS_API_KEY  - ключ Google Maps Platform
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/poncho-travel/internal/ui"
	"github.com/ilkoid/poncho-travel/pkg/agent"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml (по умолчанию автопоиск)")
	model := flag.String("model", "", "алиас модели из models.definitions")
	skipExample := flag.Bool("skip-example", false, "не запускать пример Toronto → Chicago")
	useTUI := flag.Bool("tui", false, "полноэкранный интерфейс вместо построчного")
	width := flag.Int("width", 100, "ширина переноса ответов (0 - без переноса)")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer utils.SetupGracefulShutdown(cancel)()

	client, err := agent.New(ctx, agent.Config{ConfigPath: *configPath, Model: *model})
	if err != nil {
		utils.Error("Initialization failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		utils.Close()
		os.Exit(1)
	}
	utils.Info("Planner ready", "tools", client.Tools())

	if *useTUI {
		program := tea.NewProgram(ui.InitialModel(ctx, client, !*skipExample), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	repl := ui.NewREPL(client, os.Stdin, os.Stdout, *width)
	repl.PrintBanner()

	if !*skipExample {
		request, err := client.ExampleRequest()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			repl.RunExample(ctx, request)
		}
	}

	// Чтение stdin не прерывается отменой контекста, поэтому ждём
	// либо конца REPL, либо сигнала.
	done := make(chan error, 1)
	go func() { done <- repl.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	case <-ctx.Done():
		fmt.Println()
	}
}
