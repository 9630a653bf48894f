package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Strob0t/basenames/internal/adapter/postgres"
	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/service"
)

// runCheck resolves a single name through the full cascade and prints the
// verdict as JSON.
func runCheck(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: basenames check <name>")
	}

	cfg, closer, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer closer.Close()

	b, err := buildBackends(ctx, cfg, "")
	if err != nil {
		return err
	}
	defer b.Close()

	svc := service.NewAvailabilityService(b.api, b.registrar, b.registry)
	return printJSON(svc.Resolve(ctx, args[0]))
}

func runNamehash(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: basenames namehash <name>")
	}
	name, err := basename.Validate(args[0])
	if err != nil {
		return err
	}
	full := name.FullName()
	return printJSON(map[string]string{"name": full, "node": basename.Namehash(full).Hex()})
}

func runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	owner := fs.String("owner", "", "address receiving the name (defaults to the wallet)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: basenames register <name> [--owner 0x…]")
	}

	cfg, closer, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer closer.Close()

	key := cfg.Chain.WalletKey
	if key == "" {
		if !term.IsTerminal(int(syscall.Stdin)) { //nolint:unconvert // int conversion needed on some platforms
			return errors.New("no wallet key configured (set BASENAMES_WALLET_KEY)")
		}
		key, err = promptSecret("Wallet private key: ")
		if err != nil {
			return fmt.Errorf("read wallet key: %w", err)
		}
	}

	b, err := buildBackends(ctx, cfg, key)
	if err != nil {
		return err
	}
	defer b.Close()

	avail := service.NewAvailabilityService(b.api, b.registrar, b.registry)
	svc := service.NewRegistrationService(avail, b.registrar, b.wallet)
	res, err := svc.Register(ctx, fs.Arg(0), *owner)
	if perr := printJSON(res); perr != nil {
		return perr
	}
	return err
}

func runMigrate(ctx context.Context, args []string) error {
	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}

	cfg, closer, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer closer.Close()
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres dsn not configured")
	}

	switch cmd {
	case "up":
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Migrations applied")
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		if err := postgres.RollbackMigrations(ctx, cfg.Postgres.DSN, steps); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Rolled back %d migration(s)\n", steps)
	case "status":
		v, err := postgres.MigrationVersion(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		fmt.Printf("schema version: %d\n", v)
	default:
		return fmt.Errorf("unknown migrate command: %s", cmd)
	}
	return nil
}

// promptSecret reads a value from the terminal without echoing.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
