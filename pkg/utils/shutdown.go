package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupGracefulShutdown отменяет cancel по SIGINT/SIGTERM.
//
// Возвращённую функцию вызывают через defer в main: она закрывает лог-файл.
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer utils.SetupGracefulShutdown(cancel)()
//
// После первого сигнала обработчик снимается: второй Ctrl+C завершает процесс сразу.
func SetupGracefulShutdown(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		signal.Stop(sigChan)
		Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	return func() {
		signal.Stop(sigChan)
		Close()
	}
}

// SetupGracefulShutdownWithContext - вариант для tools-server и model-probe,
// где контекст создаётся сразу вместе с обработчиком сигналов.
func SetupGracefulShutdownWithContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	shutdown := SetupGracefulShutdown(cancel)
	return ctx, func() {
		shutdown()
		cancel()
	}
}
