/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package rewriter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sap/go-generics/slices"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sap/byoi/internal/walk"
	"github.com/sap/byoi/pkg/guard"
	"github.com/sap/byoi/pkg/manifests"
	"github.com/sap/byoi/pkg/names"
	"github.com/sap/byoi/pkg/types"
)

// Options for the rewrite pass.
type Options struct {
	// Suffix appended to all generated names; may be empty.
	Suffix string
	// Type of the OS image currently being built (e.g. ubuntu-2204-efi); OSImages whose OS name is
	// contained in this string are checked against the guard.
	OSType string
	// Guard for the artifact destination folder; if nil, no collision checks are done.
	Guard *guard.Guard
}

// Result of a rewrite pass.
type Result struct {
	OldReleaseName string
	ReleaseName    string
	ReleaseVersion string
	// Names of the OSImages, in discovery order.
	OSImageNames []string
	// Files written, in lexical order.
	UpdatedFiles []string
	// Locations (file#index:/path) of string values still equal to the old release name after the pass.
	StaleReferences []string
}

// Rewriter renames the release found in a manifest store, and propagates the new name to all manifests referring to it.
type Rewriter struct {
	store   *manifests.Store
	options Options
}

func New(store *manifests.Store, options Options) *Rewriter {
	return &Rewriter{
		store:   store,
		options: options,
	}
}

// Compute the new identity of the release and its OS images, and update all manifests accordingly.
// All changes are computed (and all names validated, all collision checks done) before the first file is written.
// If an error is returned before that point, nothing was persisted; the in-memory documents of the store may however
// have been changed, so the store should be discarded.
// References are replaced by plain substring replacement; values which merely contain the old release name
// as a substring will be changed as well.
func (r *Rewriter) Rewrite(ctx context.Context) (*Result, error) {
	log := log.FromContext(ctx)

	release := r.store.Release()
	if release == nil {
		return nil, types.NewManifestNotFoundError(types.KindRelease, r.store.Dir())
	}
	bootstrapTemplate := r.store.BootstrapTemplate()
	if bootstrapTemplate == nil {
		return nil, types.NewManifestNotFoundError(types.KindBootstrapTemplate, r.store.Dir())
	}

	identity, err := names.NewReleaseIdentity(release.KubernetesVersion(), r.options.Suffix)
	if err != nil {
		return nil, err
	}
	oldName := release.GetName()
	newName := identity.Name()
	log.Info("computed release identity", "oldName", oldName, "name", newName, "version", identity.Version())

	replace := func(s string) string {
		return strings.ReplaceAll(s, oldName, newName)
	}
	changed := make(map[string]manifests.Manifest)

	osImageNames, err := r.renameOSImages(ctx, identity)
	if err != nil {
		return nil, err
	}
	for _, osImage := range r.store.OSImages() {
		changed[osImage.Source().Path] = osImage
	}

	release.SetName(newName)
	release.SetOSImages(osImageNames)
	release.SetVersion(identity.Version())
	changed[release.Source().Path] = release

	bootstrapTemplate.SetName(newName)
	if err := bootstrapTemplate.MapProviderRefNames(func(addon string, name string) string {
		log.V(1).Info("updating provider reference", "addon", addon, "oldName", name, "name", replace(name))
		return replace(name)
	}); err != nil {
		return nil, types.NewIOError(err, bootstrapTemplate.Source().Path)
	}
	if err := bootstrapTemplate.MapPackageSecretRefs(func(refName string, secretRef string) string {
		log.V(1).Info("updating package secret reference", "package", refName, "oldName", secretRef, "name", replace(secretRef))
		return replace(secretRef)
	}); err != nil {
		return nil, types.NewIOError(err, bootstrapTemplate.Source().Path)
	}
	changed[bootstrapTemplate.Source().Path] = bootstrapTemplate

	for _, addon := range r.store.Addons() {
		name := replace(addon.GetName())
		if name == addon.GetName() {
			continue
		}
		log.V(1).Info("renaming addon", "kind", addon.GetKind(), "oldName", addon.GetName(), "name", name)
		addon.SetName(name)
		changed[addon.Source().Path] = addon
	}

	result := &Result{
		OldReleaseName: oldName,
		ReleaseName:    newName,
		ReleaseVersion: identity.Version(),
		OSImageNames:   osImageNames,
	}
	if oldName != newName {
		result.StaleReferences = r.findReferences(oldName)
		for _, reference := range result.StaleReferences {
			log.Info("warning: old release name still referenced", "reference", reference)
		}
	}

	paths := make([]string, 0, len(changed))
	for path := range changed {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		log.V(1).Info("writing manifests", "path", path)
		if err := r.store.Update(changed[path]); err != nil {
			return result, err
		}
		result.UpdatedFiles = append(result.UpdatedFiles, path)
	}

	log.Info("release metadata updated", "name", newName, "files", len(result.UpdatedFiles))
	return result, nil
}

func (r *Rewriter) renameOSImages(ctx context.Context, identity *names.ReleaseIdentity) ([]string, error) {
	log := log.FromContext(ctx)

	osImages := r.store.OSImages()
	osImageNames := make([]string, len(osImages))
	var errs *multierror.Error
	for i, osImage := range osImages {
		name, err := identity.FormatName(osImage.OSName(), strings.ReplaceAll(osImage.OSVersion(), ".", ""), osImage.OSArch())
		if err == nil {
			err = names.Validate(name)
		}
		if err == nil && slices.Contains(osImageNames[:i], name) {
			err = types.NewInvalidNameError(name, "generated for more than one OSImage")
		}
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", osImage.Source().Path, err))
			continue
		}
		osImageNames[i] = name
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	for i, osImage := range osImages {
		if r.options.Guard != nil && r.matchesOSType(osImage) {
			log.V(1).Info("checking for existing artifact", "name", osImageNames[i], "folder", r.options.Guard.Folder())
			if err := r.options.Guard.Check(osImageNames[i]); err != nil {
				return nil, err
			}
		}
		log.Info("renaming OSImage", "os", osImage.OSName(), "oldName", osImage.GetName(), "name", osImageNames[i])
		osImage.SetName(osImageNames[i])
	}
	return osImageNames, nil
}

func (r *Rewriter) matchesOSType(osImage *manifests.OSImage) bool {
	return strings.Contains(strings.ToLower(r.options.OSType), strings.ToLower(osImage.OSName()))
}

func (r *Rewriter) findReferences(name string) []string {
	var references []string
	for _, manifest := range r.store.Manifests() {
		source := manifest.Source()
		// the callback never fails, so there is no error to handle
		_ = walk.Walk(manifest.Object().Object, func(value string, path []string) error {
			if value == name {
				references = append(references, fmt.Sprintf("%s#%d:/%s", source.Path, source.Index, strings.Join(path, "/")))
			}
			return nil
		})
	}
	return references
}
