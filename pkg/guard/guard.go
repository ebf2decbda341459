/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package guard

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/sap/byoi/internal/fileutils"
	"github.com/sap/byoi/pkg/types"
)

// Guard protects a destination folder against overwriting already published artifacts.
type Guard struct {
	fsys       afero.Fs
	folder     string
	extensions []string
}

// Create a guard for the given folder. If no extensions are given, only .ova artifacts are considered.
func New(fsys afero.Fs, folder string, extensions ...string) *Guard {
	if len(extensions) == 0 {
		extensions = []string{types.ArtifactExtensionOva}
	}
	return &Guard{
		fsys:       fsys,
		folder:     folder,
		extensions: extensions,
	}
}

func (g *Guard) Folder() string {
	return g.folder
}

// Check that the folder contains no artifact named candidate (with one of the configured extensions).
// Returns an ArtifactCollisionError otherwise. A non-existing folder contains nothing.
func (g *Guard) Check(candidate string) error {
	pattern, err := glob.Compile(g.pattern(candidate))
	if err != nil {
		return err
	}
	paths, err := fileutils.Find(g.fsys, g.folder, "", 0, 1)
	if err != nil {
		return types.NewIOError(err, g.folder)
	}
	for _, path := range paths {
		if pattern.Match(filepath.Base(path)) {
			return types.NewArtifactCollisionError(path)
		}
	}
	return nil
}

func (g *Guard) pattern(candidate string) string {
	quotedExtensions := make([]string, len(g.extensions))
	for i, extension := range g.extensions {
		quotedExtensions[i] = glob.QuoteMeta(strings.TrimPrefix(extension, "."))
	}
	if len(quotedExtensions) == 1 {
		return glob.QuoteMeta(candidate) + "." + quotedExtensions[0]
	}
	return glob.QuoteMeta(candidate) + ".{" + strings.Join(quotedExtensions, ",") + "}"
}
