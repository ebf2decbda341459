/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package names

import (
	"strings"

	"github.com/sap/byoi/pkg/types"
)

// ReleaseIdentity is the published identity of a release: a Kubernetes version plus an optional suffix.
type ReleaseIdentity struct {
	version string
	suffix  string
	name    string
}

// Create the identity for the given Kubernetes version (e.g. v1.28.0+vmware.1) and suffix.
// The version must not contain the encoded separator '---', since that could not be restored when reading the name back.
func NewReleaseIdentity(version string, suffix string) (*ReleaseIdentity, error) {
	if version == "" {
		return nil, types.NewInvalidNameError(version, "empty kubernetes version")
	}
	if strings.Contains(version, encodedBuildMetadataSeparator) {
		return nil, types.NewInvalidNameError(version, "kubernetes version must not contain "+encodedBuildMetadataSeparator)
	}
	name, err := FormatName(suffix, EncodeVersion(version))
	if err != nil {
		return nil, err
	}
	if err := Validate(name); err != nil {
		return nil, err
	}
	return &ReleaseIdentity{version: version, suffix: suffix, name: name}, nil
}

// Kubernetes version as given.
func (r *ReleaseIdentity) KubernetesVersion() string {
	return r.version
}

// Version encoded for use in object names.
func (r *ReleaseIdentity) EncodedVersion() string {
	return EncodeVersion(r.version)
}

// Object name of the release.
func (r *ReleaseIdentity) Name() string {
	return r.name
}

// The part of the suffix which survived truncation.
func (r *ReleaseIdentity) EffectiveSuffix() string {
	if r.suffix == "" {
		return ""
	}
	return r.name[len(r.EncodedVersion())+1:]
}

// Release version, that is the Kubernetes version (with its '+' separator) plus the effective suffix.
func (r *ReleaseIdentity) Version() string {
	if suffix := r.EffectiveSuffix(); suffix != "" {
		return r.version + "-" + suffix
	}
	return r.version
}

// Format the name of an object belonging to this release; the release's encoded version is appended to parts,
// followed by the release suffix.
func (r *ReleaseIdentity) FormatName(parts ...string) (string, error) {
	return FormatName(r.suffix, append(parts, r.EncodedVersion())...)
}
