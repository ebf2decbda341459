/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package render

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/drone/envsubst"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sap/byoi/internal/fileutils"
	"github.com/sap/byoi/internal/templatex"
	"github.com/sap/byoi/pkg/manifests"
	"github.com/sap/byoi/pkg/types"
)

// RenderOptions describe the sources of the packer variables.
type RenderOptions struct {
	// Folder containing the variable templates; files directly inside apply to all OS types,
	// sub-folders named after prefixes of the OS type apply to matching OS types only.
	Folder string
	// OS type being built, e.g. ubuntu-2204-efi.
	OSType string
	// Package repository files to be added to the image (missing files are skipped).
	ExtraRepoFiles []string
	// JSON files with additional variables, overriding all rendered values (missing files are skipped).
	AdditionalVariableFiles []string
}

// Renderer renders packer variable templates (go templates producing JSON objects) with a fixed set of variables.
// The templates can use all functions from the sprig library, plus toYaml, fromYaml, toJson, fromJson, required,
// include, tpl, formatName, encodeVersion and versionSeries.
type Renderer struct {
	fsys      afero.Fs
	variables *Variables
}

func NewRenderer(fsys afero.Fs, variables *Variables) *Renderer {
	return &Renderer{
		fsys:      fsys,
		variables: variables,
	}
}

// Render all sources described by options into one flat variable map.
// Later sources override earlier ones key by key (a nested object replaces the earlier one as a whole): generic templates, OS specific templates (from the least to the most specific
// folder), extra repositories, additional variable files.
func (r *Renderer) Render(ctx context.Context, options RenderOptions) (map[string]any, error) {
	log := log.FromContext(ctx)

	result, err := r.RenderFolder(ctx, options.Folder, options.OSType)
	if err != nil {
		return nil, err
	}

	extraRepos, err := ExtraRepos(r.fsys, options.ExtraRepoFiles)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("additional package repositories", "values", extraRepos)
	manifests.MergeMapInto(result, extraRepos)

	additionalVariables, err := AdditionalVariables(r.fsys, options.AdditionalVariableFiles)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("additional packer variables", "values", additionalVariables)
	manifests.MergeMapInto(result, additionalVariables)

	return result, nil
}

// Render the files directly inside folder, then the files of folder/<t1>, folder/<t1>-<t2>, ... for osType = <t1>-<t2>-...
// Files are processed in lexical order within each folder; non-existing OS folders are skipped.
func (r *Renderer) RenderFolder(ctx context.Context, folder string, osType string) (map[string]any, error) {
	log := log.FromContext(ctx)

	folders := []string{folder}
	osTypeTokens := strings.Split(osType, "-")
	for i := range osTypeTokens {
		folders = append(folders, filepath.Join(folder, strings.Join(osTypeTokens[:i+1], "-")))
	}

	result := make(map[string]any)
	for _, dir := range folders {
		paths, err := fileutils.Find(r.fsys, dir, "", fileutils.FileTypeRegular, 1)
		if err != nil {
			return nil, types.NewIOError(err, dir)
		}
		for _, path := range paths {
			log.V(1).Info("rendering packer variables", "path", path)
			values, err := r.RenderFile(path)
			if err != nil {
				return nil, err
			}
			manifests.MergeMapInto(result, values)
		}
	}
	return result, nil
}

// Render a single template file; the output must be a JSON object.
func (r *Renderer) RenderFile(path string) (map[string]any, error) {
	raw, err := afero.ReadFile(r.fsys, path)
	if err != nil {
		return nil, types.NewIOError(err, path)
	}
	t := template.New(filepath.Base(path)).Option("missingkey=zero").Funcs(sprig.TxtFuncMap()).Funcs(templatex.FuncMap())
	t = t.Funcs(templatex.FuncMapForTemplate(t))
	if _, err := t.Parse(string(raw)); err != nil {
		return nil, types.NewIOError(errors.Wrap(err, "error parsing template"), path)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, r.variables.Map()); err != nil {
		return nil, types.NewIOError(errors.Wrap(err, "error rendering template"), path)
	}
	var values map[string]any
	if err := json.Unmarshal(templatex.AdjustTemplateOutput(buf.Bytes()), &values); err != nil {
		return nil, types.NewIOError(errors.Wrap(err, "error decoding rendered template"), path)
	}
	return values, nil
}

// Compute the extra_repos/remove_extra_repos variables from a list of repository files; files that do not exist are skipped.
// Returns an empty map if files is nil.
func ExtraRepos(fsys afero.Fs, files []string) (map[string]any, error) {
	if files == nil {
		return map[string]any{}, nil
	}
	var existing []string
	for _, file := range files {
		path, err := expandPath(file)
		if err != nil {
			return nil, err
		}
		ok, err := fileutils.Exists(fsys, path, 0)
		if err != nil {
			return nil, types.NewIOError(err, path)
		}
		if ok {
			existing = append(existing, path)
		}
	}
	return map[string]any{
		"extra_repos":        strings.Join(existing, " "),
		"remove_extra_repos": "true",
	}, nil
}

// Merge the JSON objects contained in files (in the given order); files that do not exist are skipped.
func AdditionalVariables(fsys afero.Fs, files []string) (map[string]any, error) {
	result := make(map[string]any)
	for _, file := range files {
		path, err := expandPath(file)
		if err != nil {
			return nil, err
		}
		ok, err := fileutils.Exists(fsys, path, fileutils.FileTypeRegular)
		if err != nil {
			return nil, types.NewIOError(err, path)
		}
		if !ok {
			continue
		}
		raw, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, types.NewIOError(err, path)
		}
		var values map[string]any
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, types.NewIOError(errors.Wrap(err, "error decoding additional variables"), path)
		}
		manifests.MergeMapInto(result, values)
	}
	return result, nil
}

// Write variables as (4-space indented) JSON to the packer variables file in dir, and return its path.
func WriteVariables(fsys afero.Fs, dir string, variables map[string]any) (string, error) {
	path := filepath.Join(dir, types.PackerVariablesFile)
	raw, err := json.MarshalIndent(variables, "", "    ")
	if err != nil {
		return "", errors.Wrap(err, "error encoding packer variables")
	}
	if err := fileutils.WriteFileAtomic(fsys, path, append(raw, '\n'), 0644); err != nil {
		return "", types.NewIOError(err, path)
	}
	return path, nil
}

// Environment variable references in braces (e.g. ${HOME}/repos/extra.list) are expanded; a bare $HOME is kept as is.
func expandPath(path string) (string, error) {
	expanded, err := envsubst.EvalEnv(strings.TrimSpace(path))
	if err != nil {
		return "", errors.Wrapf(err, "error expanding path %s", path)
	}
	return expanded, nil
}
