package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/cvanon/pkg/audit"
	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/config"
	"github.com/nikogura/cvanon/pkg/jobtitle"
	"github.com/nikogura/cvanon/pkg/profile"
	"github.com/nikogura/cvanon/pkg/redact"
	"github.com/nikogura/cvanon/pkg/renderer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var screeningFile string

//nolint:gochecknoglobals // Cobra boilerplate
var jobFile string

//nolint:gochecknoglobals // Cobra boilerplate
var outputOpts profileOutput

//nolint:gochecknoglobals // Cobra boilerplate
var anonymiseCmd = &cobra.Command{
	Use:     "anonymise <candidate.json>",
	Aliases: []string{"anonymize"},
	Short:   "Build an anonymised profile from a local candidate record",
	Long: `Build an anonymised profile from a candidate record saved as JSON in the
Smart Recruiters candidate format.

Screening answers and the job posting are optional; without them the profile
has no notes and no job reference.

Formats:
  json      profile as JSON on stdout
  markdown  pandoc markdown on stdout
  word      .docx written to the output directory (requires pandoc)

Example:
  cvanon anonymise candidate.json --format json
  cvanon anonymise candidate.json --screening answers.json --job job.json --format word
  cvanon anonymise candidate.json --positions 3 --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runAnonymise,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(anonymiseCmd)
	anonymiseCmd.Flags().StringVar(&screeningFile, "screening", "", "Screening answers JSON file")
	anonymiseCmd.Flags().StringVar(&jobFile, "job", "", "Job posting JSON file")
	addOutputFlags(anonymiseCmd, &outputOpts)
}

// profileOutput holds the flags shared by commands that produce a profile.
type profileOutput struct {
	positions    int
	format       string
	outputDir    string
	keepMarkdown bool
}

func addOutputFlags(cmd *cobra.Command, opts *profileOutput) {
	cmd.Flags().IntVarP(&opts.positions, "positions", "n", 0, "Number of most recent positions to include (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json, markdown or word (default from config)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Output directory for word documents (default from config)")
	cmd.Flags().BoolVar(&opts.keepMarkdown, "keep-markdown", false, "Keep the markdown file after rendering a word document")
}

func runAnonymise(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var src profile.Source
	src, err = loadSource(args[0], screeningFile, jobFile)
	if err != nil {
		return err
	}

	var builder *profile.Builder
	builder, err = newBuilder(cfg, outputOpts.positions)
	if err != nil {
		return err
	}

	var p profile.Profile
	p, err = builder.Build(ctx, src)
	if err != nil {
		return err
	}

	err = writeProfile(ctx, cmd, cfg, p, outputOpts)
	return err
}

// loadSource reads a candidate record and its optional screening answers and
// job posting.
func loadSource(candidatePath, answersPath, jobPath string) (src profile.Source, err error) {
	verbosef("Loading candidate from: %s\n", candidatePath)

	src.Candidate, err = candidate.Load(candidatePath)
	if err != nil {
		return src, err
	}

	if answersPath != "" {
		var answers candidate.ScreeningAnswers
		answers, err = candidate.LoadScreeningAnswers(answersPath)
		if err != nil {
			return src, err
		}
		src.Answers = &answers
	}

	if jobPath != "" {
		var job candidate.Job
		job, err = candidate.LoadJob(jobPath)
		if err != nil {
			return src, err
		}
		src.Job = &job
	}

	return src, err
}

// newBuilder creates a profile builder from config and the job title
// dictionary. A positive positions overrides the configured default.
func newBuilder(cfg config.Config, positions int) (builder *profile.Builder, err error) {
	var dict jobtitle.Dictionary
	dict, err = loadDictionary(cfg)
	if err != nil {
		return builder, err
	}

	var titles *jobtitle.Neutralizer
	titles, err = jobtitle.NewNeutralizer(dict)
	if err != nil {
		err = errors.Wrap(err, "failed to compile job title dictionary")
		return builder, err
	}

	if positions <= 0 {
		positions = cfg.Defaults.NumberOfPositions
	}

	builder = profile.NewBuilder(titles, redact.NewRedactor(slog.Default()), positions).WithLogger(slog.Default())

	verbosef("Job title substitutions: %d\n", titles.Len())
	verbosef("Positions: %d\n", builder.Positions())

	return builder, err
}

// writeProfile emits p in the requested format and reports residual gender
// cues found in its positions.
func writeProfile(ctx context.Context, cmd *cobra.Command, cfg config.Config, p profile.Profile, opts profileOutput) (err error) {
	reportCues(p)

	format := opts.format
	if format == "" {
		format = cfg.Defaults.Format
	}

	out := cmd.OutOrStdout()

	switch format {
	case "json":
		var data []byte
		data, err = json.MarshalIndent(p, "", "  ")
		if err != nil {
			err = errors.Wrap(err, "failed to marshal profile")
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "markdown":
		_, err = fmt.Fprint(out, renderer.Markdown(p))
		return err
	case "word":
		outDir := opts.outputDir
		if outDir == "" {
			outDir = cfg.Defaults.OutputDir
		}

		var docPath string
		docPath, err = renderWord(ctx, p, outDir, cfg.Pandoc.ReferenceDoc, opts.keepMarkdown)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Profile written to: %s\n", docPath)
		return err
	default:
		err = errors.Errorf("invalid format %q (must be json, markdown or word)", format)
		return err
	}
}

// renderWord writes p to outDir as markdown and converts it with pandoc.
func renderWord(ctx context.Context, p profile.Profile, outDir, referenceDoc string, keepMarkdown bool) (docPath string, err error) {
	docPath = filepath.Join(outDir, profile.FileName(p))
	markdownPath := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".md"

	err = renderer.WriteMarkdown(renderer.Markdown(p), markdownPath)
	if err != nil {
		return docPath, err
	}

	verbosef("Rendering %s\n", docPath)

	err = renderer.RenderDocx(ctx, markdownPath, docPath, referenceDoc)
	if err != nil {
		return docPath, err
	}

	if !keepMarkdown {
		err = renderer.CleanupMarkdown(markdownPath)
		if err != nil {
			return docPath, err
		}
	}

	return docPath, err
}

func reportCues(p profile.Profile) {
	if p.NeedsReview {
		slog.Warn("profile needs manual review", "candidate_id", p.CandidateID)
	}

	if !getVerbose() {
		return
	}

	for _, pos := range p.Positions {
		if len(pos.Cues) == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s (score %d):\n", pos.Title, audit.Score(pos.Cues))
		for _, line := range audit.Summary(pos.Cues) {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}
}
