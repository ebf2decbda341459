/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sap/byoi/byoi/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// replaced by the root command once the logging flags are parsed
	log.SetLogger(logr.Discard())

	if err := cmd.Execute(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
