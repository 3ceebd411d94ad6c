package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	clientapi "github.com/Sladkolapy/Mishka/internal/client/api"
	"github.com/Sladkolapy/Mishka/internal/client/cli"
	"github.com/Sladkolapy/Mishka/internal/client/iocli"
	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "mishka-client.db", "Path to local database")
	topUpMode := flag.String("topup", "direct", "Top-up mode: direct or sbp")
	minTopUp := flag.Int64("min-topup", 10, "Minimum top-up amount in tokens")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	ctx := context.Background()

	// Локальное хранилище сессии
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	gw := clientapi.NewClient(*serverURL, boltStorage)
	sess := session.New(boltStorage, gw)

	// Разрешаем сессию один раз на старте: протухший токен
	// будет удален из хранилища до первой команды
	if err := sess.Resolve(ctx); err != nil {
		slog.Debug("session resolve failed", "error", err)
	}

	app := cli.New(iocli.NewStdio(), gw, sess, *topUpMode, *minTopUp)

	args := flag.Args()
	if len(args) == 0 {
		app.PrintUsage()
		os.Exit(1)
	}

	if err := app.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Mishka Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
