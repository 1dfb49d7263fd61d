package cmd

import (
	"fmt"
	"strings"

	"github.com/nikogura/cvanon/pkg/config"
	"github.com/nikogura/cvanon/pkg/jobtitle"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var titleCmd = &cobra.Command{
	Use:   "title <job title>...",
	Short: "Neutralise gendered job titles",
	Long: `Print each job title with gendered vocabulary replaced by a neutral
equivalent, one per line.

Example:
  cvanon title "Chairman of the Board" "Head Waitress"
  cvanon title --dictionary titles.yaml "Foreman"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTitle,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(titleCmd)
}

func runTitle(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var dict jobtitle.Dictionary
	dict, err = loadDictionary(cfg)
	if err != nil {
		return err
	}

	var titles *jobtitle.Neutralizer
	titles, err = jobtitle.NewNeutralizer(dict)
	if err != nil {
		err = errors.Wrap(err, "failed to compile job title dictionary")
		return err
	}

	out := cmd.OutOrStdout()
	for _, title := range args {
		_, err = fmt.Fprintln(out, titles.Neutralize(strings.TrimSpace(title)))
		if err != nil {
			return err
		}
	}

	return err
}
