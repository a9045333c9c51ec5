package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/kiosk"
	"github.com/cmlabs-hris/timeclock/internal/pkg/scanner"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kiosk:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		serverURL  string
		interChar  time.Duration
		inactivity time.Duration
		minLength  int
		timeout    time.Duration
		logFile    string
	)

	flagSet := pflag.NewFlagSet("kiosk", pflag.ContinueOnError)
	flagSet.StringVar(&serverURL, "server", "http://localhost:8080", "timeclock server base URL")
	flagSet.DurationVar(&interChar, "inter-char", scanner.DefaultInterCharThreshold, "largest gap between two characters of one scan")
	flagSet.DurationVar(&inactivity, "inactivity", scanner.DefaultInactivityWindow, "idle time after which a partial scan is discarded")
	flagSet.IntVar(&minLength, "min-length", scanner.DefaultMinLength, "shortest barcode submitted to the server")
	flagSet.DurationVar(&timeout, "timeout", 5*time.Second, "request timeout per scan")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	logger, closeLog, err := newLogger(logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier := scanner.NewClassifier(scanner.Options{
		InterCharThreshold: interChar,
		InactivityWindow:   inactivity,
		MinLength:          minLength,
	})
	k := kiosk.New(classifier, kiosk.NewClient(serverURL, timeout), os.Stdout)

	fmt.Fprintf(os.Stdout, "Timeclock kiosk ready (%s). Scan a card, Ctrl-C to quit.\r\n", serverURL)
	return k.Run(ctx, kiosk.NewTerminalSource(os.Stdin))
}

// Raw mode owns the terminal, so logs go to a file or nowhere below warn.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}
	return slog.New(slog.NewJSONHandler(f, nil)), func() { _ = f.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Timeclock kiosk: reads a USB barcode scanner attached as a keyboard and
toggles attendance for each scanned card.

Keystrokes arriving faster than --inter-char are treated as one scan; slower
input is assumed to be typed by hand and discarded.

Usage:
  kiosk [flags]

Flags:
%s`, flagSet.FlagUsages())
}
