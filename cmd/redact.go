package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nikogura/cvanon/pkg/audit"
	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/content"
	"github.com/nikogura/cvanon/pkg/redact"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var redactFirstName string

//nolint:gochecknoglobals // Cobra boilerplate
var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Anonymise and segment a block of CV text",
	Long: `Replace the first name and gendered pronouns in a block of CV text, then
split it into paragraphs and bullet lists. Text is read from the file, or from
stdin when no file is given. HTML markup is flattened first.

The result is printed as JSON together with any residual gender cues.

Example:
  cvanon redact --first-name Mary description.txt
  pbpaste | cvanon redact --first-name Mary`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRedact,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(redactCmd)
	redactCmd.Flags().StringVar(&redactFirstName, "first-name", "", "Candidate first name to replace")
}

type redactOutput struct {
	Text    string          `json:"text"`
	Content []content.Block `json:"content"`
	Cues    []audit.Finding `json:"cues"`
	Score   int             `json:"score"`
}

func runRedact(cmd *cobra.Command, args []string) (err error) {
	var raw []byte
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			err = errors.Wrapf(err, "failed to read %s", args[0])
			return err
		}
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			err = errors.Wrap(err, "failed to read stdin")
			return err
		}
	}

	var plain string
	plain, err = candidate.PlainText(string(raw))
	if err != nil {
		return err
	}

	text := redact.Text(plain, redactFirstName)
	cues := audit.Scan(text)

	result := redactOutput{
		Text:    text,
		Content: content.Segment(text),
		Cues:    cues,
		Score:   audit.Score(cues),
	}
	if result.Cues == nil {
		result.Cues = []audit.Finding{}
	}

	var data []byte
	data, err = json.MarshalIndent(result, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal result")
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
