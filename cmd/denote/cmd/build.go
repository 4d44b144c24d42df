package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nfrund/denote/internal/artifact"
	"github.com/nfrund/denote/internal/preview"
	"github.com/nfrund/denote/internal/render"
)

func newBuildCmd(c *cli) *cobra.Command {
	var (
		output       string
		force        bool
		cacheControl string
		siteDomain   string
	)

	cmd := &cobra.Command{
		Use:     "build <source>",
		Aliases: []string{"b"},
		Short:   "Compile a description into an edge server script",
		Long: `Builds a self-contained server script for an edge runtime.

The output file is './<source without extension>_server.js' by default.
For example, when source is './denote.yml', output is './denote_server.js'.

Example:
  denote build ./denote.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			ext, err := checkSource(source)
			if err != nil {
				return err
			}
			if isURL(source) {
				return fmt.Errorf("invalid file is passed as an argument: %s (build needs a local file)", source)
			}

			outPath := output
			if outPath == "" {
				base := filepath.Base(source)
				outPath = base[:len(base)-len(ext)] + "_server.js"
			}
			if strings.ToLower(filepath.Ext(outPath)) != ".js" {
				return fmt.Errorf("invalid output file is passed: %s (want a .js file)", outPath)
			}

			b := &preview.Builder{
				Store:    c.store,
				Renderer: render.New(render.WithSiteDomain(siteDomain)),
				Options:  artifact.Options{CacheControl: cacheControl},
			}
			a, err := b.Build(cmd.Context(), source)
			if err != nil {
				return err
			}
			script, err := a.Script()
			if err != nil {
				return err
			}
			return writeOutput(cmd, c.store, outPath, []byte(script), force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output filename, must be a .js file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the output file without confirmation")
	cmd.Flags().StringVar(&cacheControl, "cache", artifact.DefaultCacheControl, "Cache-Control header sent with the page")
	cmd.Flags().StringVar(&siteDomain, "domain", render.DefaultSiteDomain, "domain used for og:url (https://<projectName>.<domain>)")
	return cmd
}
