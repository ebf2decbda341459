/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sap/byoi/pkg/artifact"
	"github.com/sap/byoi/pkg/guard"
	"github.com/sap/byoi/pkg/render"
	"github.com/sap/byoi/pkg/types"
)

const copyOvaUsage = `Copy the OVA produced by the image builder to the OVA destination folder

The OVA is published under the image name recorded in the (already renamed) OSImage matching the OS type,
together with the package list of the build. Existing artifacts are never overwritten.
`

type copyOvaOptions struct {
	kubernetesConfig         string
	osType                   string
	tkrMetadataFolder        string
	tkrSuffix                string
	ovaDestinationFolder     string
	ovaTsSuffix              string
	imageBuilderOutputFolder string
}

func newCopyOvaCmd() *cobra.Command {
	options := &copyOvaOptions{}

	cmd := &cobra.Command{
		Use:          "copy-ova",
		Aliases:      []string{"copy_ova"},
		Short:        "Publish the built OVA",
		Long:         copyOvaUsage,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			log := log.FromContext(ctx).WithValues("osType", options.osType)
			fsys := afero.NewOsFs()

			kubernetesConfig, err := render.LoadKubernetesConfig(fsys, options.kubernetesConfig)
			if err != nil {
				return err
			}
			kubernetesVersion, err := cast.ToStringE(kubernetesConfig[render.VariableKubernetes])
			if err != nil || kubernetesVersion == "" {
				return fmt.Errorf("kubernetes configuration %s lacks a valid kubernetes version", options.kubernetesConfig)
			}

			artifactName, err := artifact.LookupArtifactName(fsys, filepath.Join(options.tkrMetadataFolder, types.ConfigFolderName), options.osType)
			if err != nil {
				return err
			}

			paths, err := artifact.NewCopier(fsys, guard.New(fsys, options.ovaDestinationFolder)).Copy(ctx, artifact.Source{
				OutputFolder:      options.imageBuilderOutputFolder,
				OSType:            options.osType,
				KubernetesVersion: kubernetesVersion,
				TimestampSuffix:   options.ovaTsSuffix,
			}, artifactName)
			if err != nil {
				return err
			}
			log.Info("copying completed", "paths", paths)

			return nil
		},
	}

	cmd.Flags().SortFlags = false
	flags := cmd.Flags()
	flags.StringVar(&options.kubernetesConfig, "kubernetes-config", "", "Path to the Kubernetes configuration (JSON) of the release")
	flags.StringVar(&options.osType, "os-type", "", "OS type of the image that was built, e.g. ubuntu-2204-efi")
	flags.StringVar(&options.tkrMetadataFolder, "tkr-metadata-folder", "", "Path to the (renamed) release metadata")
	flags.StringVar(&options.tkrSuffix, "tkr-suffix", "", "Suffix appended to the release names")
	flags.StringVar(&options.ovaDestinationFolder, "ova-destination-folder", "", "Folder to publish the OVA to")
	flags.StringVar(&options.ovaTsSuffix, "ova-ts-suffix", "", "Timestamp suffix of the image build")
	flags.StringVar(&options.imageBuilderOutputFolder, "image-builder-output-folder", "/image-builder/images/capi/output", "Output folder of the image builder")

	if err := flags.MarkDeprecated("tkr-suffix", "the OVA name is taken from the renamed metadata"); err != nil {
		panic(err)
	}
	markFlagsRequired(cmd, "kubernetes-config", "os-type", "tkr-metadata-folder", "ova-destination-folder", "ova-ts-suffix")

	return cmd
}
