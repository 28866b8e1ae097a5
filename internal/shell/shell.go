// Package shell implements the interactive "yns>" prompt.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spitkov/yns/internal/common/output"
)

// Prompt is printed before every command line
const Prompt = "yns> "

// Handler carries out the package verbs typed at the prompt
type Handler interface {
	Update(ctx context.Context) error
	Install(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	Upgrade(ctx context.Context, name string) error
	List(ctx context.Context) error
}

// Console is the terminal the session talks to. ReadLine must return once
// ctx is done, even while no input is pending.
type Console interface {
	ReadLine(ctx context.Context) (string, error)
	Output() io.Writer
	Error(format string, args ...interface{})
	Clear()
}

// Session reads commands until exit or end of input
type Session struct {
	console Console
	handler Handler
}

// New creates a session
func New(console Console, handler Handler) *Session {
	return &Session{console: console, handler: handler}
}

// Run executes the read-eval loop. A failed command is reported and the
// loop continues. When ctx ends during a read, Run returns ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	out := s.console.Output()

	output.Success.Fprintln(out, "YNS Package Manager Interactive Mode")
	fmt.Fprintln(out, "Type 'help' for available commands or 'exit' to quit")

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		output.Progress.Fprint(out, Prompt)
		line, err := s.console.ReadLine(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			fmt.Fprintln(out)
			return ctxErr
		}
		if err != nil && line == "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		if cmdErr := s.dispatch(ctx, fields); cmdErr != nil && ctx.Err() == nil {
			s.console.Error("%v", cmdErr)
		}
	}
}

func (s *Session) dispatch(ctx context.Context, fields []string) error {
	command := fields[0]

	switch command {
	case "help":
		PrintHelp(s.console.Output())
		return nil
	case "clear":
		s.console.Clear()
		return nil
	case "update":
		return s.handler.Update(ctx)
	case "list":
		return s.handler.List(ctx)
	case "install", "remove", "upgrade":
		if len(fields) < 2 {
			s.console.Error("Package name required for %s command", command)
			return nil
		}
		name := fields[1]
		switch command {
		case "install":
			return s.handler.Install(ctx, name)
		case "remove":
			return s.handler.Remove(ctx, name)
		default:
			return s.handler.Upgrade(ctx, name)
		}
	default:
		s.console.Error("Unknown command '%s'. Type 'help' for available commands.", command)
		return nil
	}
}

// PrintHelp writes the list of interactive commands
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `
Available commands:
  help                Show this help message
  update              Update package cache
  install <package>   Install a package
  remove <package>    Remove a package
  upgrade <package>   Upgrade a package
  list                List all packages
  clear               Clear the screen
  exit                Exit interactive mode

`)
}
