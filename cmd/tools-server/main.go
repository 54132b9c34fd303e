// tools-server - HTTP сервер, открывающий инструменты планировщика.
//
// Endpoints:
//
//	GET  /health
//	GET  /api/v1/tools
//	POST /api/v1/tools/:name      (тело - JSON аргументы инструмента)
//	GET  /api/v1/weather?location=...
//	GET  /api/v1/air-quality?location=...
//	GET  /api/v1/attractions?city=...&num_results=...
//
// Нужен только GOOGLE_MAPS_API_KEY, ключ LLM не используется.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/ilkoid/poncho-travel/internal/api/http"
	"github.com/ilkoid/poncho-travel/pkg/app"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml (по умолчанию автопоиск)")
	addr := flag.String("addr", "", "адрес сервера (перекрывает server.addr)")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	cfg, cfgPath, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		fail(err)
	}
	registry, _, err := app.InitializeTools(cfg)
	if err != nil {
		fail(err)
	}

	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	server := fiber.New(fiber.Config{
		AppName:               "poncho-travel-tools",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})
	server.Use(logger.New())
	server.Use(recover.New())

	httpapi.RegisterRoutes(server, registry)

	go func() {
		utils.Info("tools-server listening", "addr", listenAddr, "config", cfgPath)
		fmt.Printf("Listening on %s (tools: %v)\n", listenAddr, registry.Names())
		if err := server.Listen(listenAddr); err != nil {
			utils.Error("fiber server stopped", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		utils.Error("error during shutdown", "error", err)
	}
}

func fail(err error) {
	utils.Error("tools-server failed", "error", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	utils.Close()
	os.Exit(1)
}
