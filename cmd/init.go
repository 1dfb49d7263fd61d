package cmd

import (
	"fmt"

	"github.com/nikogura/cvanon/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Write a sample config file to --config, or $HOME/.cvanon/config.json.

Edit the API key, basic auth credentials and support address before running
'cvanon serve'. Environment variables and a .env file override the file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n", path)
	return err
}
