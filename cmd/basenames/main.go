// Command basenames serves the .base.eth availability API and offers CLI
// helpers for checks, namehashes, registrations and migrations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return runServe(ctx)
	}

	switch args[0] {
	case "serve":
		return runServe(ctx)
	case "check":
		return runCheck(ctx, args[1:])
	case "namehash":
		return runNamehash(args[1:])
	case "register":
		return runRegister(ctx, args[1:])
	case "migrate":
		return runMigrate(ctx, args[1:])
	case "help", "--help", "-h":
		printHelp()
		return nil
	default:
		printHelp()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Usage: basenames <command> [options]

Commands:
  serve                          Run the HTTP API (default)
  check <name>                   Check whether <name>.base.eth is available
  namehash <name>                Print the namehash of <name>.base.eth
  register <name> [--owner 0x…]  Register <name>.base.eth for one year
  migrate [up|down|status]       Manage the registration history schema
  help                           Show this help message

Configuration is read from basenames.yaml and BASENAMES_* environment variables.
`)
}
