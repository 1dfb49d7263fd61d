package cmd

import (
	"log/slog"

	"github.com/nikogura/cvanon/pkg/config"
	"github.com/nikogura/cvanon/pkg/profile"
	"github.com/nikogura/cvanon/pkg/server"
	"github.com/nikogura/cvanon/pkg/smartrecruiters"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var listenAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve anonymised profiles over HTTP",
	Long: `Run the HTTP service used by the browser bookmarklet.

Endpoints (all behind HTTP basic auth except /health):
  GET /{candidateId}?jobId=&f=word|json|markdown&n=5
  GET /install.html   bookmarklet install page
  GET /health

Requires the Smart Recruiters API key, basic auth credentials, a support email
address and the bookmarklet base URL, from the config file or environment.

Example:
  cvanon serve
  cvanon serve --listen :8080 --log-format json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config, then :3000)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	err = cfg.ValidateServer()
	if err != nil {
		return err
	}

	logger := slog.Default()

	var builder *profile.Builder
	builder, err = newBuilder(cfg, 0)
	if err != nil {
		return err
	}

	client := smartrecruiters.NewClient(cfg.SmartRecruitersAPIKey, cfg.APIBaseURL).WithLogger(logger)

	var srv *server.Server
	srv, err = server.New(cfg, client, builder, logger)
	if err != nil {
		return err
	}

	err = srv.Start()
	return err
}
