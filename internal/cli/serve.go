package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribe-ai/scribe/internal/api"
	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing scribe's generation pipeline.

Endpoints:
  GET  /health              — Health check
  POST /api/commit-message  — Generate commit message candidates from a diff
  POST /api/changelog       — Generate a changelog for a commit range
  GET  /api/ws              — WebSocket for interactive review sessions

Changelog endpoints need the server to run inside a git repository.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6143, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The changelog endpoints are disabled outside a repository; the
	// diff-based ones still work.
	root, err := git.Discover(".")
	if err != nil {
		root = ""
		ui.Warn("Not inside a git repository; /api/changelog is disabled.")
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")
	listen := fmt.Sprintf("%s:%d", addr, port)

	ui.Banner("scribe API server")
	srv := api.New(listen, cfg, root)
	return srv.ListenAndServe()
}
