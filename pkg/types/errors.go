/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package types

import "fmt"

// ManifestNotFoundError is returned if a required manifest kind is missing from a metadata folder.
type ManifestNotFoundError struct {
	Kind   string
	Folder string
}

func NewManifestNotFoundError(kind string, folder string) ManifestNotFoundError {
	return ManifestNotFoundError{Kind: kind, Folder: folder}
}

func (e ManifestNotFoundError) Error() string {
	return fmt.Sprintf("no manifest of kind %s found in %s", e.Kind, e.Folder)
}

// DuplicateManifestError is returned if a manifest kind which must be unique occurs more than once.
type DuplicateManifestError struct {
	Kind  string
	Paths []string
}

func NewDuplicateManifestError(kind string, paths ...string) DuplicateManifestError {
	return DuplicateManifestError{Kind: kind, Paths: paths}
}

func (e DuplicateManifestError) Error() string {
	return fmt.Sprintf("found more than one manifest of kind %s: %v", e.Kind, e.Paths)
}

// InvalidNameError is returned if a generated object name violates the Kubernetes naming rules,
// or if the input it is generated from is malformed.
type InvalidNameError struct {
	Name   string
	Reason string
}

func NewInvalidNameError(name string, reason string) InvalidNameError {
	return InvalidNameError{Name: name, Reason: reason}
}

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// ArtifactCollisionError is returned if a destination folder already holds an artifact with the name about to be published.
type ArtifactCollisionError struct {
	Path string
}

func NewArtifactCollisionError(path string) ArtifactCollisionError {
	return ArtifactCollisionError{Path: path}
}

func (e ArtifactCollisionError) Error() string {
	return fmt.Sprintf("artifact %s already exists", e.Path)
}

// ArtifactNotFoundError is returned if the name or the source of an artifact cannot be resolved.
type ArtifactNotFoundError struct {
	What string
}

func NewArtifactNotFoundError(what string) ArtifactNotFoundError {
	return ArtifactNotFoundError{What: what}
}

func (e ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s", e.What)
}

// IOError wraps failures reading, parsing or writing files.
type IOError struct {
	err  error
	path string
}

func NewIOError(err error, path string) IOError {
	return IOError{err: err, path: path}
}

func (e IOError) Error() string {
	return fmt.Sprintf("%s: %s", e.path, e.err)
}

func (e IOError) Unwrap() error {
	return e.err
}

func (e IOError) Cause() error {
	return e.err
}

func (e IOError) Path() string {
	return e.path
}
