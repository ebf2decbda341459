/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/sap/go-generics/slices"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Split a comma separated list; blank entries are dropped. An empty s yields nil.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return slices.Select(
		slices.Collect(strings.Split(s, ","), strings.TrimSpace),
		func(item string) bool { return item != "" },
	)
}

// Return the command's own flags as template arguments, keyed by their snake case names
// (e.g. --os-type becomes os_type).
func flagArguments(c *cobra.Command) map[string]string {
	arguments := make(map[string]string)
	c.LocalNonPersistentFlags().VisitAll(func(flag *pflag.Flag) {
		if flag.Name == "help" {
			return
		}
		arguments[strcase.ToSnake(flag.Name)] = flag.Value.String()
	})
	return arguments
}

func markFlagsRequired(c *cobra.Command, names ...string) {
	for _, name := range names {
		if err := c.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
