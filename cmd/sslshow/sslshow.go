package main

import (
	"fmt"

	"github.com/chaintuts/sslshow/internal/model"
	"github.com/chaintuts/sslshow/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch HOSTNAME",
	Short: "connect to HOSTNAME:443 and show its leaf certificate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := service.FromConfig(config)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), svc.Show(cmd.Context(), args[0]))
		return err
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "show the leaf certificate stored in a PEM or DER file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := service.FromConfig(config)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), svc.Inspect(cmd.Context(), args[0]))
		return err
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "print the default configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defaults := model.DefaultConfig()
		if err := enc.Encode(defaults); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return enc.Close()
	},
}
