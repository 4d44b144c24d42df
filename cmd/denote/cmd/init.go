package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nfrund/denote/internal/profile"
)

func newInitCmd(c *cli) *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:     "init <filename>",
		Aliases: []string{"i"},
		Short:   "Generate a sample profile description",
		Long: `Generates a commented sample description with the given filename.

The output should be a YAML (.yml, .yaml) or JSON (.json) file.

Example:
  denote init profile.yml --name octocat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			ext, err := checkSource(filename)
			if err != nil {
				return err
			}

			var data []byte
			if ext == ".json" {
				data, err = profile.SampleJSON(name)
			} else {
				data, err = profile.Sample(name)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, c.store, filename, data, force)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", profile.DefaultSampleName, "name written into the sample")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the output file without confirmation")
	return cmd
}
