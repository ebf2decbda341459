/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sap/byoi/pkg/guard"
	"github.com/sap/byoi/pkg/manifests"
	"github.com/sap/byoi/pkg/packages"
	"github.com/sap/byoi/pkg/render"
	"github.com/sap/byoi/pkg/rewriter"
	"github.com/sap/byoi/pkg/types"
)

const setupUsage = `Render the packer variables for the image build, and rename the release metadata

The packer variables are rendered from the templates in the default configuration folder and written
to the destination folder as packer-variables.json. The TanzuKubernetesRelease, its OSImages and
ClusterBootstrapTemplate, and all manifests referring to them, are renamed by appending the suffix.
Nothing is changed if a renamed OSImage would overwrite an artifact already present in the OVA
destination folder.
`

type setupOptions struct {
	kubernetesConfig            string
	osType                      string
	hostIP                      string
	artifactsContainerPort      int
	packerHTTPPort              int
	defaultConfigFolder         string
	tkrMetadataFolder           string
	tkrSuffix                   string
	destConfig                  string
	ovaDestinationFolder        string
	ovaTsSuffix                 string
	additionalPackerVariables   string
	overridePackageRepositories string
}

func newSetupCmd() *cobra.Command {
	options := &setupOptions{}

	cmd := &cobra.Command{
		Use:          "setup",
		Short:        "Render packer variables and rename release metadata",
		Long:         setupUsage,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(c *cobra.Command, args []string) error {
			for name, port := range map[string]int{"artifacts-container-port": options.artifactsContainerPort, "packer-http-port": options.packerHTTPPort} {
				if port <= 0 || port > 65535 {
					return fmt.Errorf("invalid value for flag --%s: %d", name, port)
				}
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			log := log.FromContext(ctx).WithValues("osType", options.osType)
			fsys := afero.NewOsFs()

			kubernetesConfig, err := render.LoadKubernetesConfig(fsys, options.kubernetesConfig)
			if err != nil {
				return err
			}
			localhostPaths, err := packages.LocalhostPaths(fsys, filepath.Join(options.tkrMetadataFolder, types.PackagesFolderName))
			if err != nil {
				return err
			}
			variables, err := render.NewVariables(kubernetesConfig, flagArguments(c), localhostPaths)
			if err != nil {
				return err
			}
			log.V(1).Info("template variables", "variables", variables.String())

			packerVariables, err := render.NewRenderer(fsys, variables).Render(ctx, render.RenderOptions{
				Folder:                  options.defaultConfigFolder,
				OSType:                  options.osType,
				ExtraRepoFiles:          splitList(options.overridePackageRepositories),
				AdditionalVariableFiles: splitList(options.additionalPackerVariables),
			})
			if err != nil {
				return err
			}

			store, err := manifests.Load(fsys, filepath.Join(options.tkrMetadataFolder, types.ConfigFolderName))
			if err != nil {
				return err
			}
			result, err := rewriter.New(store, rewriter.Options{
				Suffix: options.tkrSuffix,
				OSType: options.osType,
				Guard:  guard.New(fsys, options.ovaDestinationFolder),
			}).Rewrite(ctx)
			if err != nil {
				return err
			}
			log.Info("release metadata updated", "release", result.ReleaseName, "version", result.ReleaseVersion, "osImages", result.OSImageNames)

			path, err := render.WriteVariables(fsys, options.destConfig, packerVariables)
			if err != nil {
				return err
			}
			log.Info("packer variables written", "path", path)

			return nil
		},
	}

	cmd.Flags().SortFlags = false
	flags := cmd.Flags()
	flags.StringVar(&options.kubernetesConfig, "kubernetes-config", "", "Path to the Kubernetes configuration (JSON) of the release")
	flags.StringVar(&options.osType, "os-type", "", "OS type of the image being built, e.g. ubuntu-2204-efi")
	flags.StringVar(&options.hostIP, "host-ip", "", "IP address of the host serving the build artifacts")
	flags.IntVar(&options.artifactsContainerPort, "artifacts-container-port", 8081, "Port of the artifacts container")
	flags.IntVar(&options.packerHTTPPort, "packer-http-port", 8082, "Port of the packer HTTP server")
	flags.StringVar(&options.defaultConfigFolder, "default-config-folder", "", "Path to the folder containing the packer variable templates")
	flags.StringVar(&options.tkrMetadataFolder, "tkr-metadata-folder", "", "Path to the release metadata (containing the config and packages folders)")
	flags.StringVar(&options.tkrSuffix, "tkr-suffix", "", "Suffix to be appended to the names of the release, its OSImages and the OVA")
	flags.StringVar(&options.destConfig, "dest-config", "", "Folder to write packer-variables.json to")
	flags.StringVar(&options.ovaDestinationFolder, "ova-destination-folder", "", "Folder the renamed OVA will be published to")
	flags.StringVar(&options.ovaTsSuffix, "ova-ts-suffix", "", "Timestamp suffix of the image build")
	flags.StringVar(&options.additionalPackerVariables, "additional-packer-variables", "", "Comma separated list of JSON files with packer variable overrides")
	flags.StringVar(&options.overridePackageRepositories, "override-package-repositories", "", "Comma separated list of package repository files to be used inside the image")

	markFlagsRequired(cmd, "kubernetes-config", "os-type", "host-ip", "default-config-folder", "tkr-metadata-folder", "dest-config", "ova-destination-folder", "ova-ts-suffix")

	return cmd
}
