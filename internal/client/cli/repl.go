package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for prompt output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Calendar(ctx context.Context) error
	Filter(ctx context.Context, arg string) error
	Show(ctx context.Context, id string) error
	New(ctx context.Context, emotion, text string) error
	Edit(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the diary shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands and missing
// arguments are reported back to the user. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("diary> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, cal, filter <date>|off, show <id>, new <emotion> <text>, edit <id> <text>, del <id>, like <id>, (r)efresh, exit")

		case "l", "list":
			_ = a.List(ctx)

		case "cal":
			_ = a.Calendar(ctx)

		case "filter":
			if len(args) != 1 {
				printlnFn("Usage: filter <YYYY-MM-DD> | filter off")
				continue
			}
			_ = a.Filter(ctx, args[0])

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "new":
			if len(args) < 2 {
				printlnFn("Usage: new <emotion> <text>")
				continue
			}
			_ = a.New(ctx, args[0], strings.Join(args[1:], " "))

		case "edit":
			if len(args) < 2 {
				printlnFn("Usage: edit <id> <text>")
				continue
			}
			_ = a.Edit(ctx, args[0], strings.Join(args[1:], " "))

		case "del":
			if len(args) != 1 {
				printlnFn("Usage: del <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "like":
			if len(args) != 1 {
				printlnFn("Usage: like <id>")
				continue
			}
			_ = a.Like(ctx, args[0])

		case "r", "refresh":
			_ = a.Refresh(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
