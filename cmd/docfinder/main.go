package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/swetasamaddar-clear/document-finder/internal/config"
	"github.com/swetasamaddar-clear/document-finder/internal/document/service"
	"github.com/swetasamaddar-clear/document-finder/internal/server"
	"github.com/swetasamaddar-clear/document-finder/pkg/logger"
)

var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:           "docfinder",
		Short:         "Save documents with extracted keywords and search them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
			logger.SetOutput(os.Stderr)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(saveCmd())
	rootCmd.AddCommand(searchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withApp loads config, wires the application and hands it to fn.
func withApp(ctx context.Context, mutate func(*config.Config), fn func(*server.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	applyLogLevel(logLevel, cfg)
	if mutate != nil {
		mutate(cfg)
	}
	app, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			mutate := func(cfg *config.Config) {
				if addr != "" {
					cfg.Server.Host, cfg.Server.Port = splitAddr(addr, cfg.Server.Host)
				}
			}
			return withApp(ctx, mutate, func(app *server.App) error {
				return app.Run(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port or :port)")
	return cmd
}

func saveCmd() *cobra.Command {
	var in service.SaveInput
	var file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Extract keywords for a document and append it to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				if in.Content != "" {
					return errors.New("--content and --file are mutually exclusive")
				}
				content, err := readContent(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				in.Content = content
			}

			return withApp(cmd.Context(), nil, func(app *server.App) error {
				tags, err := app.Service.Save(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\nTags: %s\n", in.Title, tags)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.URL, "url", "", "document url")
	cmd.Flags().StringVar(&in.Title, "title", "", "document title")
	cmd.Flags().StringVar(&in.Content, "content", "", "document text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read document text from file ('-' for stdin)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func searchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search saved documents by title or tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			return withApp(cmd.Context(), nil, func(app *server.App) error {
				results, err := app.Service.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(results)
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "No matching documents.")
					return nil
				}
				for _, r := range results {
					fmt.Fprintf(out, "%s\n  %s\n  [%s]\n", r.Title, r.URL, r.Tags)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// applyLogLevel prefers --log-level over the loaded LOG_LEVEL.
func applyLogLevel(flag string, cfg *config.Config) {
	if flag != "" {
		logger.Init(flag)
		return
	}
	logger.Init(cfg.LogLevel)
}

func readContent(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// splitAddr accepts "host:port" or ":port"; an empty host keeps fallback.
func splitAddr(addr, fallback string) (string, string) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			host := addr[:i]
			if host == "" {
				host = fallback
			}
			return host, addr[i+1:]
		}
	}
	return fallback, addr
}
