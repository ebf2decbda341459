/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package packages

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sap/byoi/pkg/manifests"
	"github.com/sap/byoi/pkg/types"
)

const (
	kappControllerImage = "localhost:5000/tkg/packages/core/kapp-controller"
	kappKeyPrefix       = "kapp"
)

// Collect the local registry paths of the package bundles found in dir (recursively).
// For each Package, the key is derived from its refName (up to the first dot, dashes replaced by underscores),
// followed by '_package_localhost_path'; the value is the bundle image without digest or tag.
// The kapp-controller package is special: its key ends with '_localhost_path', and the value is the
// kapp-controller image (including its tag) as referenced in the package file.
func LocalhostPaths(fsys afero.Fs, dir string) (map[string]string, error) {
	store, err := manifests.Read(fsys, dir, true)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string)
	for _, pkg := range store.Packages() {
		key := keyName(pkg.RefName())
		if strings.Contains(key, kappKeyPrefix) {
			path, err := kappControllerPath(fsys, pkg.Source().Path)
			if err != nil {
				return nil, err
			}
			if path != "" {
				paths[key+"_localhost_path"] = path
			}
			continue
		}
		image := pkg.BundleImage()
		if image == "" {
			return nil, types.NewIOError(errors.Errorf("package %s has no imgpkg bundle", pkg.RefName()), pkg.Source().Path)
		}
		paths[key+"_package_localhost_path"] = stripReference(image)
	}
	return paths, nil
}

func keyName(refName string) string {
	name, _, _ := strings.Cut(refName, ".")
	return strings.ReplaceAll(name, "-", "_")
}

// Remove the digest (@...) or, if there is none, the tag (:...) from an image reference.
func stripReference(image string) string {
	if i := strings.LastIndex(image, "@"); i >= 0 {
		return image[:i]
	}
	if i := strings.LastIndex(image, ":"); i >= 0 && !strings.Contains(image[i:], "/") {
		return image[:i]
	}
	return image
}

func kappControllerPath(fsys afero.Fs, path string) (string, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return "", types.NewIOError(err, path)
	}
	defer file.Close()

	var result string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		image, found := strings.CutPrefix(line, "image:")
		if !found {
			continue
		}
		image = strings.TrimSpace(image)
		if !strings.HasPrefix(image, kappControllerImage) {
			continue
		}
		image, _, _ = strings.Cut(image, "@")
		result = image
	}
	if err := scanner.Err(); err != nil {
		return "", types.NewIOError(err, path)
	}
	return result, nil
}
