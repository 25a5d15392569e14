// Package main provides the CLI entrypoint for typesprint.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/generator"
	"github.com/verte-zerg/typesprint/internal/logging"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/statsui"
	"github.com/verte-zerg/typesprint/internal/store"
	"github.com/verte-zerg/typesprint/internal/tui"
	"github.com/verte-zerg/typesprint/internal/web"
	"github.com/verte-zerg/typesprint/internal/wordlist"
)

const (
	defaultCurveWindow = 10
	defaultCharLimit   = 10
	defaultAddr        = ":8800"
	shutdownTimeout    = 5 * time.Second
)

var (
	testMode      string
	testDuration  int
	testShowTimer bool
	testTheme     string

	wordsFile  string
	quotesFile string
	debug      bool

	statsMode   string
	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool

	serveAddr string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	rootCmd := &cobra.Command{
		Use:           "typesprint",
		Short:         "Timed typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().StringVar(&testMode, "mode", string(defaults.TestMode), "test mode: words, quotes or zen")
	rootCmd.Flags().IntVar(&testDuration, "duration", defaults.TestDuration, "test duration in seconds: 15, 30, 60 or 120")
	rootCmd.Flags().BoolVar(&testShowTimer, "show-timer", defaults.ShowTimer, "show the countdown")
	rootCmd.Flags().StringVar(&testTheme, "theme", defaults.Theme, "colour theme: dark, light or neon")

	rootCmd.PersistentFlags().StringVar(&wordsFile, "words-file", "", "word list file, one word per line")
	rootCmd.PersistentFlags().StringVar(&quotesFile, "quotes-file", "", "quotes file, one quote per line")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBestCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings := fileCfg.Test.Apply(model.DefaultSettings())
	applyFlag(cmd, "mode", &settings.TestMode, model.TestMode(testMode))
	applyFlag(cmd, "duration", &settings.TestDuration, testDuration)
	applyFlag(cmd, "show-timer", &settings.ShowTimer, testShowTimer)
	applyFlag(cmd, "theme", &settings.Theme, testTheme)
	if err := config.Validate(settings); err != nil {
		return err
	}

	corpus, err := loadCorpus()
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(config.DefaultLogPath())
	var logger *slog.Logger
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		logger = logging.New(io.Discard, slog.LevelError, false)
	} else {
		defer func() {
			_ = logFile.Close()
		}()
		logger = logging.New(logFile, logging.Level(debug), false)
	}
	slog.SetDefault(logger)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		// The test still runs; the best score is kept in memory.
		logger.Error("failed to open db", "error", err)
		logErrf("history disabled: %v\n", err)
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error("failed to close db", "error", cerr)
			}
		}()
	}

	m := tui.NewModel(tui.Options{
		Settings:   settings,
		Supplier:   generator.New(corpus),
		Store:      st,
		ConfigPath: configPath,
		Logger:     logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadCorpus() (wordlist.Corpus, error) {
	corpus := wordlist.Default()
	if wordsFile != "" {
		words, err := wordlist.LoadWords(wordsFile)
		if err != nil {
			return wordlist.Corpus{}, fmt.Errorf("failed to load word list: %w", err)
		}
		corpus.Words = words
	}
	if quotesFile != "" {
		quotes, err := wordlist.LoadQuotes(quotesFile)
		if err != nil {
			return wordlist.Corpus{}, fmt.Errorf("failed to load quotes: %w", err)
		}
		corpus.Quotes = quotes
	}
	return corpus, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Print the best WPM",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	best, err := st.BestWPM(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load best WPM: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%.0f\n", best); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show history stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N tests")
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter := model.HistoryFilter{
		Mode: model.TestMode(statsMode),
		Last: statsLast,
	}
	if statsMode != "" {
		s := model.DefaultSettings()
		s.TestMode = filter.Mode
		if err := config.Validate(s); err != nil {
			return err
		}
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printStats(cmd.Context(), cmd.OutOrStdout(), st, filter)
	}
	program := tea.NewProgram(statsui.NewModel(st, filter, statsWindow), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(ctx context.Context, w io.Writer, st *store.Store, filter model.HistoryFilter) error {
	report, err := stats.BuildReport(ctx, st, filter, statsWindow)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	width := 60
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 30 {
		width = tw - 20
	}
	if err := stats.RenderSummary(w, report.Records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(w, report.Records, statsWindow, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCharTable(w, report.CharAggsWindow, defaultCharLimit); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the typing test to browsers",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	logger := logging.New(os.Stderr, logging.Level(debug), term.IsTerminal(int(os.Stderr.Fd())))
	slog.SetDefault(logger)

	corpus, err := loadCorpus()
	if err != nil {
		return err
	}
	app := web.New(web.Options{Corpus: corpus, Logger: logger}).App()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(serveAddr)
	}()
	logger.Info("serving", "addr", serveAddr)

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// applyFlag copies a flag value over the config value when the flag was set.
func applyFlag[T any](cmd *cobra.Command, name string, target *T, value T) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
