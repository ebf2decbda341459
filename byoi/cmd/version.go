/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sap/go-generics/slices"
	"github.com/spf13/cobra"

	kyaml "sigs.k8s.io/yaml"

	"github.com/sap/byoi/internal/version"
)

const versionUsage = `Show byoi version and build information

The short format prints the version only; the text format adds git commit, build date,
go version and platform of the binary.
`

var versionOutputFormats = []string{"short", "text", "yaml", "json"}

type versionOptions struct {
	outputFormat string
}

func newVersionCmd() *cobra.Command {
	options := &versionOptions{}

	cmd := &cobra.Command{
		Use:          "version",
		Short:        "Show version",
		Long:         versionUsage,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(c *cobra.Command, args []string) error {
			if !slices.Contains(versionOutputFormats, options.outputFormat) {
				return fmt.Errorf("invalid value for flag --%s: %s (must be one of %s)", "output", options.outputFormat, strings.Join(versionOutputFormats, ", "))
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			return printBuildInfo(c.OutOrStdout(), options.outputFormat, version.GetBuildInfo())
		},
		ValidArgsFunction: cobra.NoFileCompletions,
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.outputFormat, "output", "o", "short", "Output format; one of "+strings.Join(versionOutputFormats, ", "))
	if err := cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(versionOutputFormats, cobra.ShellCompDirectiveNoFileComp)); err != nil {
		panic(err)
	}

	return cmd
}

func printBuildInfo(w io.Writer, format string, buildInfo version.BuildInfo) error {
	switch format {
	case "short":
		_, err := fmt.Fprintln(w, buildInfo.Version)
		return err
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Version:\t%s\n", buildInfo.Version)
		fmt.Fprintf(tw, "Git commit:\t%s\n", valueOrUnknown(buildInfo.GitCommit))
		fmt.Fprintf(tw, "Modified:\t%t\n", buildInfo.Modified)
		fmt.Fprintf(tw, "Build date:\t%s\n", valueOrUnknown(buildInfo.BuildDate))
		fmt.Fprintf(tw, "Go version:\t%s\n", buildInfo.GoVersion)
		fmt.Fprintf(tw, "Platform:\t%s\n", buildInfo.Platform)
		return tw.Flush()
	case "yaml":
		raw, err := kyaml.Marshal(buildInfo)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	case "json":
		raw, err := json.MarshalIndent(buildInfo, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", raw)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
