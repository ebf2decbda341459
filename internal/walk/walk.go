/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package walk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

type WalkFunc func(value string, path []string) error

// Walk through the untyped (JSON-like) document x recursively, and apply f to each string leaf. In detail, this means:
//   - slices will be traversed element by element, maps key by key (in sorted key order)
//   - string values are passed to f, together with the path from the root to the node; map keys as they are,
//     slice indices converted to string
//   - other scalar values (numbers, booleans, nil) are skipped.
//
// Notes:
//   - Walk panics if it encounters a type that cannot occur in a decoded JSON or YAML document
//   - Walk does not produce any errors by itself, it just collects the errors returned by f
//     (each one annotated with its path) into a multierror.
func Walk(x any, f WalkFunc) error {
	errs := walk(x, nil, f)
	if len(errs) > 0 {
		return multierror.Append(nil, errs...)
	}
	return nil
}

type walkError struct {
	err  error
	path []string
}

func (e walkError) Error() string {
	return fmt.Sprintf("/%s: %s", strings.Join(e.path, "/"), e.err)
}

func (e walkError) Unwrap() error {
	return e.err
}

func (e walkError) Cause() error {
	return e.err
}

// Path of the node which caused the error.
func (e walkError) Path() []string {
	return e.path
}

func walk(x any, path []string, f WalkFunc) (errs []error) {
	switch v := x.(type) {
	case nil, bool, int, int32, int64, float32, float64:
	case string:
		if err := f(v, path); err != nil {
			errs = append(errs, walkError{err: err, path: path})
		}
	case []any:
		for i, item := range v {
			errs = append(errs, walk(item, appendPath(path, strconv.Itoa(i)), f)...)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			errs = append(errs, walk(v[key], appendPath(path, key), f)...)
		}
	default:
		panic(walkError{err: fmt.Errorf("unrecognized type: %T", x), path: path})
	}
	return
}

func appendPath(path []string, element string) []string {
	result := make([]string, len(path), len(path)+1)
	copy(result, path)
	return append(result, element)
}
