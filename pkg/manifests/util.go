/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifests

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// Merge two maps and return the result; top-level keys of y replace those of x, nested maps are not merged.
// The first map (x) must be deeply JSON (i.e. consist deeply of JSON values only).
// The maps given as input will not be changed.
// Both maps can be passed as nil.
func MergeMaps(x, y map[string]any) map[string]any {
	if x == nil {
		x = make(map[string]any)
	} else {
		x = runtime.DeepCopyJSON(x)
	}
	MergeMapInto(x, y)
	return x
}

// Merge second map (y) over first map (x); each top-level value of y replaces the value of x, whatever its type.
// Values are copied, so the first map does not share nested maps or slices with the second one afterwards.
// The first map will be changed (unless y is empty or nil), the second map will not be changed.
// The first map must not be nil, the second map is allowed to be nil; y must be deeply JSON.
func MergeMapInto(x map[string]any, y map[string]any) {
	for k, v := range y {
		x[k] = runtime.DeepCopyJSONValue(v)
	}
}

// The accessors below are only called for fields which Parse() has verified to be present.

func mustNestedString(object *unstructured.Unstructured, fields ...string) string {
	value, _, err := unstructured.NestedString(object.Object, fields...)
	if err != nil {
		panic(err)
	}
	return value
}

func mustSetNestedField(object *unstructured.Unstructured, value any, fields ...string) {
	if err := unstructured.SetNestedField(object.Object, value, fields...); err != nil {
		panic(err)
	}
}

func formatFieldPath(fields []string) string {
	return strings.Join(fields, ".")
}
