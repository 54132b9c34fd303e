// Package utils - общие помощники планировщика: файловый логгер,
// обработка сигналов и очистка ответов LLM.
//
// Логгер пишет строки вида
//
//	[2026-10-17 15:30:00] INFO: react run started run_id=... messages=1
//
// в travel-<дата>-<время>.log текущей директории. До InitLogger записи
// отбрасываются, поэтому пакеты можно тестировать без файла.
package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	logPrefix     = "travel"
	logTimeLayout = "2006-01-02 15:04:05"
)

var (
	logMu   sync.Mutex
	logFile *os.File
)

// InitLogger открывает лог-файл для текущего запуска. Повторный вызов - no-op.
func InitLogger() error {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile != nil {
		return nil
	}

	name := fmt.Sprintf("%s-%s.log", logPrefix, time.Now().Format("2006-01-02-15-04"))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	writeLocked(formatLine("INFO", "logger initialized", "file", name))
	return nil
}

// Info - штатные события: старт запуска, вызов инструмента, ответ.
func Info(msg string, keyvals ...any) { write("INFO", msg, keyvals...) }

// Warn - инструмент вернул ошибку или не уложился в timeout.
func Warn(msg string, keyvals ...any) { write("WARN", msg, keyvals...) }

// Error - запуск агента завершился ошибкой.
func Error(msg string, keyvals ...any) { write("ERROR", msg, keyvals...) }

// Debug - аргументы вызовов и прочие подробности.
func Debug(msg string, keyvals ...any) { write("DEBUG", msg, keyvals...) }

func write(level, msg string, keyvals ...any) {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile == nil {
		return
	}
	writeLocked(formatLine(level, msg, keyvals...))
}

// formatLine собирает строку лога. Непарный последний ключ пропускается.
func formatLine(level, msg string, keyvals ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", time.Now().Format(logTimeLayout), level, msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	b.WriteByte('\n')
	return b.String()
}

// writeLocked пишет строку в файл, при сбое - в stderr. Вызывается под logMu.
func writeLocked(line string) {
	if _, err := logFile.WriteString(line); err != nil {
		fmt.Fprint(os.Stderr, line)
		fmt.Fprintf(os.Stderr, "[logger: write failed: %v]\n", err)
		return
	}
	if err := logFile.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "[logger: sync failed: %v]\n", err)
	}
}

// Close закрывает лог-файл. Безопасно вызывать несколько раз.
func Close() {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "[logger: close failed: %v]\n", err)
	}
	logFile = nil
}
