// Package cmd implements the denote command line: generate a profile
// description, preview it locally, compile it into an edge server script, or
// publish it on a registry.
//
// Persistent flags can also be set from the environment with the DENOTE_
// prefix, e.g. DENOTE_REGISTRY or DENOTE_LOG_LEVEL.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nfrund/denote/internal/client"
	"github.com/nfrund/denote/internal/logging"
	"github.com/nfrund/denote/internal/storage"
)

// cli carries what every subcommand shares.
type cli struct {
	v     *viper.Viper
	store storage.Store
}

// NewRootCmd builds the command tree. All file access goes through store.
func NewRootCmd(store storage.Store) *cobra.Command {
	c := &cli{v: viper.New(), store: store}

	root := &cobra.Command{
		Use:   "denote",
		Short: "A minimal profile page generator",
		Long: `denote turns a YAML or JSON profile description into a single HTML page.

The page can be previewed locally, compiled into a self-contained edge server
script, or published on a denote registry under a name you own.

Example:
  denote init denote.yml
  denote serve denote.yml --watch
  denote build denote.yml
  denote register denote.yml --name your-name --token your-token`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogging(cmd, args)
		},
	}

	flags := root.PersistentFlags()
	flags.String("registry", client.DefaultRegistry, "registry URL used by register and unregister")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolP("debug", "d", false, "print debug output, same as --log-level=debug")

	c.v.SetEnvPrefix("DENOTE")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	for _, name := range []string{"registry", "log-level", "debug"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(c),
		newBuildCmd(c),
		newServeCmd(c),
		newRegisterCmd(c),
		newUnregisterCmd(c),
	)
	return root
}

// Execute runs the CLI against the local disk.
func Execute() {
	root := NewRootCmd(storage.NewDiskStore())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (c *cli) setupLogging(cmd *cobra.Command, args []string) error {
	level := c.v.GetString("log-level")
	if c.v.GetBool("debug") {
		level = "debug"
	}
	logging.NewWithWriter(cmd.ErrOrStderr(), "text", level)

	if slog.Default().Enabled(cmd.Context(), slog.LevelDebug) {
		attrs := []any{"command", cmd.Name(), "args", args}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			attrs = append(attrs, f.Name, f.Value.String())
		})
		slog.Debug("Running command", attrs...)
	}
	return nil
}
