/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const shortName = "byoi"

const rootUsage = `Prepare bring-your-own-image builds of Tanzu Kubernetes releases

Common actions for byoi:
- byoi setup             Render packer variables and rename the release metadata
- byoi copy-ova          Publish the built OVA under its new name
- byoi version           Show version
`

type rootOptions struct {
	verbosity int
	logDev    bool
}

func newRootCmd() *cobra.Command {
	options := &rootOptions{}

	cmd := &cobra.Command{
		Use:          shortName,
		Short:        "A bring-your-own-image helper for Tanzu Kubernetes releases",
		Long:         rootUsage,
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if options.verbosity < 0 || options.verbosity > 127 {
				return fmt.Errorf("invalid value for flag --%s: %d", "verbosity", options.verbosity)
			}
			logger := zap.New(
				zap.WriteTo(c.ErrOrStderr()),
				zap.UseDevMode(options.logDev),
				zap.Level(zapcore.Level(-options.verbosity)),
			)
			log.SetLogger(logger)
			c.SetContext(log.IntoContext(c.Context(), logger))
			return nil
		},
	}

	cmd.Flags().SortFlags = false
	flags := cmd.PersistentFlags()
	flags.IntVarP(&options.verbosity, "verbosity", "v", 0, "Log verbosity; 0 logs info messages only, higher values add debug output")
	flags.BoolVar(&options.logDev, "log-dev", false, "Use human readable (development mode) logging")

	cmd.AddCommand(
		newVersionCmd(),
		newSetupCmd(),
		newCopyOvaCmd(),
	)

	return cmd
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
