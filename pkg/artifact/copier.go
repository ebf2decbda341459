/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sap/go-generics/slices"
	"github.com/spf13/afero"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sap/byoi/internal/fileutils"
	"github.com/sap/byoi/pkg/guard"
	"github.com/sap/byoi/pkg/manifests"
	"github.com/sap/byoi/pkg/names"
	"github.com/sap/byoi/pkg/types"
)

// Determine the published artifact name (e.g. ubuntu-2204-amd64-v1-28-0---vmware-1-abc.ova) for osType,
// from the (already rewritten) OSImage manifests in configDir. If more than one OSImage has an OS name
// contained in osType, the last one (in file order) wins.
func LookupArtifactName(fsys afero.Fs, configDir string, osType string) (string, error) {
	store, err := manifests.Read(fsys, configDir, false)
	if err != nil {
		return "", err
	}
	osImages := slices.Select(store.OSImages(), func(osImage *manifests.OSImage) bool {
		return strings.Contains(strings.ToLower(osType), strings.ToLower(osImage.OSName()))
	})
	if len(osImages) == 0 {
		return "", types.NewArtifactNotFoundError(fmt.Sprintf("no OSImage in %s matches OS type %s", configDir, osType))
	}
	return osImages[len(osImages)-1].ImageRefName() + "." + types.ArtifactExtensionOva, nil
}

// Source describes where the image builder left its output.
type Source struct {
	// Image builder output folder, e.g. /image-builder/images/capi/output.
	OutputFolder string
	OSType       string
	// Full Kubernetes version, e.g. v1.28.0+vmware.1.
	KubernetesVersion string
	// Timestamp suffix of the build folder.
	TimestampSuffix string
}

// Folder holding the build output, i.e. <output>/<os type>-kube-<series>-<timestamp>.
func (s Source) Folder() string {
	return filepath.Join(s.OutputFolder, fmt.Sprintf("%s-kube-%s-%s", s.OSType, names.Series(s.KubernetesVersion), s.TimestampSuffix))
}

// Name of the image produced by the image builder, i.e. <os type>-<version with + replaced by --->.ova.
func (s Source) ImageName() string {
	return fmt.Sprintf("%s-%s.%s", s.OSType, strings.ReplaceAll(s.KubernetesVersion, "+", "---"), types.ArtifactExtensionOva)
}

// Copier publishes the image builder output into the guarded destination folder.
type Copier struct {
	fsys  afero.Fs
	guard *guard.Guard
}

func NewCopier(fsys afero.Fs, guard *guard.Guard) *Copier {
	return &Copier{
		fsys:  fsys,
		guard: guard,
	}
}

// Copy the image (renamed to artifactName) and the package list from source into the destination folder.
// Returns the paths written. Nothing is copied if the destination already holds an artifact named artifactName,
// or if one of the source files is missing.
func (c *Copier) Copy(ctx context.Context, source Source, artifactName string) ([]string, error) {
	log := log.FromContext(ctx)

	candidate := strings.TrimSuffix(artifactName, filepath.Ext(artifactName))
	if err := c.guard.Check(candidate); err != nil {
		return nil, err
	}

	sourceFolder := source.Folder()
	copies := [][2]string{
		{filepath.Join(sourceFolder, source.ImageName()), filepath.Join(c.guard.Folder(), artifactName)},
		{filepath.Join(sourceFolder, types.PackageListFileName), filepath.Join(c.guard.Folder(), types.PackageListFileName)},
	}
	for _, cp := range copies {
		ok, err := fileutils.Exists(c.fsys, cp[0], fileutils.FileTypeRegular)
		if err != nil {
			return nil, types.NewIOError(err, cp[0])
		}
		if !ok {
			return nil, types.NewArtifactNotFoundError(cp[0])
		}
	}
	if err := c.fsys.MkdirAll(c.guard.Folder(), 0755); err != nil {
		return nil, types.NewIOError(err, c.guard.Folder())
	}

	var written []string
	for _, cp := range copies {
		log.Info("copying artifact", "from", cp[0], "to", cp[1])
		n, err := fileutils.CopyFileAtomic(c.fsys, cp[0], cp[1])
		if err != nil {
			return written, types.NewIOError(err, cp[1])
		}
		log.V(1).Info("artifact copied", "path", cp[1], "bytes", n)
		written = append(written, cp[1])
	}
	return written, nil
}
