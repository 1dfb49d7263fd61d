package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/config"
	"github.com/nikogura/cvanon/pkg/profile"
	"github.com/nikogura/cvanon/pkg/smartrecruiters"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var fetchJobID string

//nolint:gochecknoglobals // Cobra boilerplate
var fetchOutput profileOutput

//nolint:gochecknoglobals // Cobra boilerplate
var fetchCmd = &cobra.Command{
	Use:   "fetch <candidate-id>",
	Short: "Build an anonymised profile for a Smart Recruiters candidate",
	Long: `Fetch a candidate, their screening answers and the job posting from the
Smart Recruiters API and build an anonymised profile.

Without --job-id the candidate's primary job assignment is used.

Requires smart_recruiters_api_key in the config file or the
SMART_RECRUITERS_API_KEY environment variable.

Example:
  cvanon fetch 0b1c2d3e-4f50-6172-8394-a5b6c7d8e9f0 --format json
  cvanon fetch 0b1c2d3e-4f50-6172-8394-a5b6c7d8e9f0 --job-id 11111111-2222-3333-4444-555555555555`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchJobID, "job-id", "", "Job id (default is the candidate's primary assignment)")
	addOutputFlags(fetchCmd, &fetchOutput)
}

func runFetch(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	candidateID := args[0]
	if !candidate.ValidID(candidateID) {
		err = errors.Errorf("%s is not a valid id", candidateID)
		return err
	}
	if fetchJobID != "" && !candidate.ValidID(fetchJobID) {
		err = errors.Errorf("%s is not a valid id", fetchJobID)
		return err
	}

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	err = cfg.ValidateAPI()
	if err != nil {
		return err
	}

	client := smartrecruiters.NewClient(cfg.SmartRecruitersAPIKey, cfg.APIBaseURL).WithLogger(slog.Default())

	verbosef("Fetching candidate %s\n", candidateID)

	var src profile.Source
	src, err = client.Source(ctx, candidateID, fetchJobID)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch candidate %s", candidateID)
		return err
	}

	var builder *profile.Builder
	builder, err = newBuilder(cfg, fetchOutput.positions)
	if err != nil {
		return err
	}

	var p profile.Profile
	p, err = builder.Build(ctx, src)
	if err != nil {
		return err
	}

	err = writeProfile(ctx, cmd, cfg, p, fetchOutput)
	return err
}
