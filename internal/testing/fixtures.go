/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package testing

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	kyaml "sigs.k8s.io/yaml"
)

// Copy the local directory tree src into a new in-memory filesystem, rooted at dst.
func NewMemFsFrom(src string, dst string) (afero.Fs, error) {
	fsys := afero.NewMemMapFs()
	if err := CopyInto(fsys, src, dst); err != nil {
		return nil, err
	}
	return fsys, nil
}

// Copy the local directory tree src into fsys, rooted at dst.
func CopyInto(fsys afero.Fs, src string, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relativePath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, relativePath)
		if entry.IsDir() {
			return fsys.MkdirAll(target, 0755)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return afero.WriteFile(fsys, target, raw, 0644)
	})
}

// Read the (single-document) YAML file at path from fsys.
func ReadYAML(fsys afero.Fs, path string) (map[string]any, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := kyaml.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}
