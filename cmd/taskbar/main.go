package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"taskbar-cli/internal/cli"
)

// taskVerbs may be used without the "tasks" prefix: `taskbar add Buy milk`.
var taskVerbs = map[string]bool{
	"add":             true,
	"list":            true,
	"toggle":          true,
	"rm":              true,
	"move":            true,
	"clear":           true,
	"clear-completed": true,
	"all-complete":    true,
	"export":          true,
}

func rewriteTaskShortcutArgs(argv []string) []string {
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (`taskbar --store memory add x`), so find the first positional.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config-dir": true,
		"--store":      true,
		"--dsn":        true,
		"--format":     true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if taskVerbs[a] {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "tasks")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteTaskShortcutArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
