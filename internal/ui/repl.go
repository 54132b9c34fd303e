// Package ui реализует консольные интерфейсы планировщика:
// построчный REPL и Bubble Tea TUI.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ilkoid/poncho-travel/pkg/events"
	"github.com/ilkoid/poncho-travel/pkg/prompt"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// Planner - то, что нужно интерфейсам от агента (реализуется agent.Client).
type Planner interface {
	Example(ctx context.Context) (<-chan events.Event, error)
	Turn(ctx context.Context, userInput string) (<-chan events.Event, error)
}

// quitWords завершают интерактивный режим (без учёта регистра).
var quitWords = map[string]bool{"quit": true, "exit": true, "q": true}

// IsQuit сообщает, является ли ввод командой выхода.
func IsQuit(input string) bool {
	return quitWords[strings.ToLower(strings.TrimSpace(input))]
}

// REPL - построчный интерфейс: пример при старте и цикл "You: ".
type REPL struct {
	planner Planner
	in      *bufio.Scanner
	out     io.Writer
	width   int
}

// NewREPL создаёт REPL поверх произвольных потоков ввода/вывода.
//
// width > 0 включает перенос длинных ответов.
func NewREPL(planner Planner, in io.Reader, out io.Writer, width int) *REPL {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &REPL{planner: planner, in: scanner, out: out, width: width}
}

// PrintBanner печатает заголовок программы.
func (r *REPL) PrintBanner() {
	line := strings.Repeat("=", TitleWidth)
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out, prompt.Banner)
	fmt.Fprintln(r.out, "Using a Go ReAct agent with function calling")
	fmt.Fprintln(r.out, line+"\n")
}

// RunExample печатает и выполняет встроенный сценарий Toronto → Chicago.
//
// Ошибка агента печатается и не прерывает программу.
func (r *REPL) RunExample(ctx context.Context, request string) {
	fmt.Fprintln(r.out, "Example 1: Toronto → Chicago")
	fmt.Fprintln(r.out, strings.Repeat("-", TitleWidth))
	fmt.Fprintln(r.out, request)
	fmt.Fprint(r.out, "\nGenerating travel plan...\n\n")

	stream, err := r.planner.Example(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %s\n", err)
		return
	}
	if err := r.printStream(stream); err != nil {
		fmt.Fprintf(r.out, "Error: %s\n", err)
	}
}

// Run выполняет интерактивный цикл до quit/exit/q, конца ввода или отмены ctx.
func (r *REPL) Run(ctx context.Context) error {
	line := strings.Repeat("=", TitleWidth)
	fmt.Fprintln(r.out, "\n"+line)
	fmt.Fprintln(r.out, "Interactive Mode - Test with any cities!")
	fmt.Fprintln(r.out, "Type 'quit' to exit")
	fmt.Fprintln(r.out, line+"\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, "\nYou: ")
		if !r.in.Scan() {
			if err := r.in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			// Конец ввода (Ctrl+D) - как quit
			fmt.Fprintf(r.out, "\n\n%s\n", prompt.Farewell)
			return nil
		}

		input := strings.TrimSpace(r.in.Text())
		if IsQuit(input) {
			fmt.Fprintf(r.out, "\n%s\n", prompt.Farewell)
			return nil
		}
		if input == "" {
			continue
		}

		utils.Info("Interactive request", "input", utils.Truncate(input, 100))

		stream, err := r.planner.Turn(ctx, input)
		if err == nil {
			err = r.printStream(stream)
		}
		if err != nil {
			fmt.Fprintf(r.out, "\nError: %s\n", err)
		}
	}
}

// printStream печатает последнее сообщение каждого снимка.
//
// Возвращает ошибку из EventError; канал дочитывается до закрытия.
func (r *REPL) printStream(stream <-chan events.Event) error {
	var streamErr error
	for ev := range stream {
		switch data := ev.Data.(type) {
		case events.StateData:
			if msg, ok := data.Last(); ok {
				fmt.Fprintln(r.out, FormatMessage(msg, r.width))
			}
		case events.ErrorData:
			streamErr = data.Err
		}
	}
	return streamErr
}
