/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package names

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/sap/byoi/pkg/types"
)

const (
	buildMetadataSeparator        = "+"
	encodedBuildMetadataSeparator = "---"
)

// Create an object name by joining parts with '-', and appending suffix (if non-empty).
// The suffix is cut from the right such that the result does not exceed types.MaxObjectNameLength.
// If a suffix is given, the joined parts must leave room for at least the separating dash;
// otherwise an InvalidNameError is returned.
func FormatName(suffix string, parts ...string) (string, error) {
	defaultName := strings.Join(parts, "-")
	if suffix == "" {
		return defaultName, nil
	}
	budget := types.MaxObjectNameLength - len(defaultName) - 1
	if budget < 0 {
		return "", types.NewInvalidNameError(defaultName, fmt.Sprintf("no room left for suffix %q (maximum length is %d)", suffix, types.MaxObjectNameLength))
	}
	if len(suffix) > budget {
		suffix = suffix[:budget]
	}
	return defaultName + "-" + suffix, nil
}

// Check that name is a valid Kubernetes object name (DNS-1123 label).
func Validate(name string) error {
	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return types.NewInvalidNameError(name, strings.Join(errs, "; "))
	}
	return nil
}

// Convert a Kubernetes version into a string usable as (part of) an object name.
// The build metadata separator '+' becomes '---', dots become dashes.
func EncodeVersion(version string) string {
	s := strings.ReplaceAll(version, buildMetadataSeparator, encodedBuildMetadataSeparator)
	return strings.ReplaceAll(s, ".", "-")
}

// Restore the build metadata separator in a string produced from a version.
func DecodeVersion(s string) string {
	return strings.ReplaceAll(s, encodedBuildMetadataSeparator, buildMetadataSeparator)
}

// Remove the build metadata part (everything from the first '+') of a version.
func Series(version string) string {
	series, _, _ := strings.Cut(version, buildMetadataSeparator)
	return series
}
