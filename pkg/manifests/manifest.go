/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifests

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/sap/byoi/pkg/types"
)

// Location of a document: the file it was read from, and its position within that file.
type Source struct {
	Path  string
	Index int
}

// Manifest is one of *Release, *OSImage, *BootstrapTemplate, *Package or *Addon.
type Manifest interface {
	GetKind() string
	GetName() string
	SetName(name string)
	Object() *unstructured.Unstructured
	Source() Source
	isManifest()
}

type base struct {
	object *unstructured.Unstructured
	source Source
}

func (b *base) GetKind() string {
	return b.object.GetKind()
}

func (b *base) GetName() string {
	return b.object.GetName()
}

func (b *base) SetName(name string) {
	b.object.SetName(name)
}

func (b *base) Object() *unstructured.Unstructured {
	return b.object
}

func (b *base) Source() Source {
	return b.source
}

func (b *base) isManifest() {}

func (b *base) String() string {
	return fmt.Sprintf("%s %s (%s#%d)", b.GetKind(), b.GetName(), b.source.Path, b.source.Index)
}

// Release wraps a TanzuKubernetesRelease document.
type Release struct {
	base
}

func (r *Release) KubernetesVersion() string {
	return mustNestedString(r.object, "spec", "kubernetes", "version")
}

func (r *Release) SetVersion(version string) {
	mustSetNestedField(r.object, version, "spec", "version")
}

// Replace spec.osImages by references to the given names (in the given order).
func (r *Release) SetOSImages(names []string) {
	osImages := make([]any, len(names))
	for i, name := range names {
		osImages[i] = map[string]any{"name": name}
	}
	mustSetNestedField(r.object, osImages, "spec", "osImages")
}

// OSImage wraps an OSImage document.
type OSImage struct {
	base
}

func (o *OSImage) OSName() string {
	return mustNestedString(o.object, "spec", "os", "name")
}

func (o *OSImage) OSVersion() string {
	return mustNestedString(o.object, "spec", "os", "version")
}

func (o *OSImage) OSArch() string {
	return mustNestedString(o.object, "spec", "os", "arch")
}

func (o *OSImage) ImageRefName() string {
	name, _, _ := unstructured.NestedString(o.object.Object, "spec", "image", "ref", "name")
	return name
}

// Set metadata.name and the embedded image reference name.
func (o *OSImage) SetName(name string) {
	o.object.SetName(name)
	mustSetNestedField(o.object, name, "spec", "image", "ref", "name")
}

// Addons referenced through valuesFrom.providerRef by a ClusterBootstrapTemplate.
var BootstrapAddons = []string{"cni", "cpi", "csi", "kapp"}

// BootstrapTemplate wraps a ClusterBootstrapTemplate document.
type BootstrapTemplate struct {
	base
}

// Apply f to spec.<addon>.valuesFrom.providerRef.name for all BootstrapAddons present in the document.
func (t *BootstrapTemplate) MapProviderRefNames(f func(addon string, name string) string) error {
	for _, addon := range BootstrapAddons {
		name, found, err := unstructured.NestedString(t.object.Object, "spec", addon, "valuesFrom", "providerRef", "name")
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if err := unstructured.SetNestedField(t.object.Object, f(addon, name), "spec", addon, "valuesFrom", "providerRef", "name"); err != nil {
			return err
		}
	}
	return nil
}

// Apply f to spec.additionalPackages[*].valuesFrom.secretRef for all entries having such a reference.
func (t *BootstrapTemplate) MapPackageSecretRefs(f func(refName string, secretRef string) string) error {
	packages, found, err := unstructured.NestedSlice(t.object.Object, "spec", "additionalPackages")
	if err != nil || !found {
		return err
	}
	for i, item := range packages {
		pkg, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("spec.additionalPackages[%d] is not an object", i)
		}
		secretRef, found, err := unstructured.NestedString(pkg, "valuesFrom", "secretRef")
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		refName, _, _ := unstructured.NestedString(pkg, "refName")
		if err := unstructured.SetNestedField(pkg, f(refName, secretRef), "valuesFrom", "secretRef"); err != nil {
			return err
		}
	}
	return unstructured.SetNestedSlice(t.object.Object, packages, "spec", "additionalPackages")
}

// Package wraps a (carvel) Package document.
type Package struct {
	base
}

func (p *Package) RefName() string {
	return mustNestedString(p.object, "spec", "refName")
}

// Image of the first imgpkg bundle fetched by the package template (empty if there is none).
func (p *Package) BundleImage() string {
	fetch, _, _ := unstructured.NestedSlice(p.object.Object, "spec", "template", "spec", "fetch")
	if len(fetch) == 0 {
		return ""
	}
	first, ok := fetch[0].(map[string]any)
	if !ok {
		return ""
	}
	image, _, _ := unstructured.NestedString(first, "imgpkgBundle", "image")
	return image
}

// Addon wraps any other document (addon configs, secrets, ...).
type Addon struct {
	base
}

var (
	_ Manifest = &Release{}
	_ Manifest = &OSImage{}
	_ Manifest = &BootstrapTemplate{}
	_ Manifest = &Package{}
	_ Manifest = &Addon{}
)

// Classify a decoded document by its kind. Fails if kind or metadata.name are missing, or if
// fields required by the recognized kinds are missing or not strings.
func Parse(object *unstructured.Unstructured, source Source) (Manifest, error) {
	kind, found, err := unstructured.NestedString(object.Object, "kind")
	if err != nil {
		return nil, fmt.Errorf("malformed kind: %w", err)
	}
	if !found || kind == "" {
		return nil, fmt.Errorf("missing kind")
	}
	if name, found, err := unstructured.NestedString(object.Object, "metadata", "name"); err != nil || !found || name == "" {
		return nil, fmt.Errorf("%s: missing or malformed metadata.name", kind)
	}

	b := base{object: object, source: source}
	var manifest Manifest
	var required [][]string
	switch kind {
	case types.KindRelease:
		manifest = &Release{base: b}
		required = [][]string{{"spec", "kubernetes", "version"}}
	case types.KindOSImage:
		manifest = &OSImage{base: b}
		required = [][]string{{"spec", "os", "name"}, {"spec", "os", "version"}, {"spec", "os", "arch"}, {"spec", "image", "ref", "name"}}
	case types.KindBootstrapTemplate:
		manifest = &BootstrapTemplate{base: b}
	case types.KindPackage:
		manifest = &Package{base: b}
		required = [][]string{{"spec", "refName"}}
	default:
		manifest = &Addon{base: b}
	}
	for _, fields := range required {
		if value, found, err := unstructured.NestedString(object.Object, fields...); err != nil || !found || value == "" {
			return nil, fmt.Errorf("%s %s: missing or malformed field %s", kind, object.GetName(), formatFieldPath(fields))
		}
	}
	return manifest, nil
}
