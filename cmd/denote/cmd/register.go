package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/denote/internal/client"
	"github.com/nfrund/denote/internal/profile"
)

func newRegisterCmd(c *cli) *cobra.Command {
	var name, token string

	cmd := &cobra.Command{
		Use:   "register <source>",
		Short: "Publish the page on the registry",
		Long: `Publishes the page on the registry with the given description.

The source should be a YAML or JSON file. A URL can be used when the
description is published on the web. The token is hashed before it is saved;
keep it to update or delete the page later.

Example:
  denote register profile.yml --name your-name --token your-token`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if _, err := checkSource(source); err != nil {
				return err
			}

			api := client.New(c.v.GetString("registry"))
			data, err := c.readSource(cmd.Context(), source, api.Fetch)
			if err != nil {
				return err
			}
			doc, err := profile.Parse(data)
			if err != nil {
				return err
			}
			if err := doc.Validate(); err != nil {
				return err
			}
			config, err := json.Marshal(doc)
			if err != nil {
				return err
			}

			resp, err := api.Register(cmd.Context(), name, token, config)
			if err != nil {
				return err
			}
			return report(cmd, resp)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "your name, the page is served at <registry>/<name>")
	cmd.Flags().StringVarP(&token, "token", "t", "", "your token, hashed and saved")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newUnregisterCmd(c *cli) *cobra.Command {
	var name, token string

	cmd := &cobra.Command{
		Use:   "unregister",
		Short: "Remove the page from the registry",
		Long: `Removes the page from the registry.

Example:
  denote unregister --name your-name --token your-token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.New(c.v.GetString("registry")).Unregister(cmd.Context(), name, token)
			if err != nil {
				return err
			}
			return report(cmd, resp)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "your name")
	cmd.Flags().StringVarP(&token, "token", "t", "", "your token")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

// report prints the registry's message. A non-200 status fails the command.
func report(cmd *cobra.Command, resp *client.Response) error {
	fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
	if !resp.OK() {
		return fmt.Errorf("registry responded with status %d", resp.StatusCode)
	}
	return nil
}
