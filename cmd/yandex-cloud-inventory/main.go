// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/ansible"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/plugin"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/plugin/service/inventory"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

const (
	flagList     = "list"
	flagHost     = "host"
	flagConfig   = "config"
	flagOutput   = "output"
	flagLogLevel = "log-level"

	outputJSON = "json"
	outputYAML = "yaml"

	defaultConfigFile = "yandex_cloud.yml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr, nil)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// newRootCmd builds the inventory command. Extra plugin options are appended
// after the logger, which lets tests replace the environment lookup.
func newRootCmd(stdout, stderr io.Writer, pluginOpts []inventory.Option) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("YC_INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "yandex-cloud-inventory",
		Short: "Ansible dynamic inventory for Yandex Cloud Compute",
		Long: "Lists the virtual machines of a Yandex Cloud folder as an Ansible inventory.\n" +
			"Point Ansible at this program and set YC_INVENTORY_CONFIG to the yandex_cloud.yml file.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			// Flags override YC_INVENTORY_* environment variables.
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				fmt.Fprintln(stderr, err)
				return fmt.Errorf("error binding flags: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLogLevel(v.GetString(flagLogLevel))
			if err != nil {
				fmt.Fprintln(stderr, err)
				return err
			}
			logger := hclog.New(&hclog.LoggerOptions{
				Name:   "yandex-cloud-inventory",
				Level:  level,
				Output: stderr,
			})

			if err := execute(cmd.Context(), v, stdout, logger, pluginOpts); err != nil {
				logger.Error("inventory failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().Bool(flagList, false, "print the whole inventory")
	cmd.Flags().String(flagHost, "", "print the variables of one host")
	cmd.Flags().StringP(flagConfig, "c", defaultConfigFile, "inventory configuration file")
	cmd.Flags().StringP(flagOutput, "o", outputJSON, "output format of --list (json, yaml)")
	cmd.Flags().String(flagLogLevel, "warn", "log level (trace, debug, info, warn, error)")
	cmd.MarkFlagsMutuallyExclusive(flagList, flagHost)

	return cmd
}

func execute(ctx context.Context, v *viper.Viper, stdout io.Writer, logger hclog.Logger, pluginOpts []inventory.Option) error {
	list := v.GetBool(flagList)
	host := v.GetString(flagHost)
	output := strings.ToLower(v.GetString(flagOutput))

	switch {
	case !list && host == "":
		return errors.New("one of --list or --host is required")
	case output != outputJSON && output != outputYAML:
		return fmt.Errorf("invalid --output %q (use: json, yaml)", output)
	case host != "" && output == outputYAML:
		return errors.New("--output yaml is only supported with --list")
	}

	opts := append([]inventory.Option{inventory.WithLogger(logger)}, pluginOpts...)
	p := plugin.NewYandexCloudPlugin(opts...)

	path := v.GetString(flagConfig)
	logger.Debug("loading inventory", "config", path)

	inv := ansible.NewInventory()
	if err := p.Parse(ctx, inv, path); err != nil {
		return err
	}

	var (
		out []byte
		err error
	)
	switch {
	case host != "":
		out, err = inv.HostJSON(host)
	case output == outputYAML:
		out, err = inv.YAML()
	default:
		out, err = inv.ListJSON()
	}
	if err != nil {
		return err
	}

	if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("error writing inventory: %w", err)
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		_, _ = io.WriteString(stdout, "\n")
	}
	return nil
}

func parseLogLevel(s string) (hclog.Level, error) {
	level := hclog.LevelFromString(s)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("invalid --log-level %q (use: trace, debug, info, warn, error)", s)
	}
	return level, nil
}
