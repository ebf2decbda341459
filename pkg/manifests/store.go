/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifests

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sap/go-generics/slices"
	"github.com/spf13/afero"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	kyaml "sigs.k8s.io/yaml"

	"github.com/sap/byoi/internal/fileutils"
	"github.com/sap/byoi/pkg/types"
)

const documentSeparator = "---\n"

// Store holds the documents of all files in a manifest folder, classified by kind.
// Documents are kept in memory as read; modifications on the wrapped objects are persisted by Update() or UpdateAll().
type Store struct {
	fsys      afero.Fs
	dir       string
	paths     []string
	documents map[string][]*unstructured.Unstructured
	manifests map[string][]Manifest
}

// Read all files below dir (only direct children, unless recursive is true), without checking any invariants.
// A non-existing dir results in an empty store.
func Read(fsys afero.Fs, dir string, recursive bool) (*Store, error) {
	maxDepth := uint(1)
	if recursive {
		maxDepth = 0
	}
	paths, err := fileutils.Find(fsys, dir, "", fileutils.FileTypeRegular, maxDepth)
	if err != nil {
		return nil, types.NewIOError(err, dir)
	}

	s := &Store{
		fsys:      fsys,
		dir:       dir,
		paths:     paths,
		documents: make(map[string][]*unstructured.Unstructured),
		manifests: make(map[string][]Manifest),
	}
	for _, path := range paths {
		objects, err := s.readFile(path)
		if err != nil {
			return nil, types.NewIOError(err, path)
		}
		if err := s.setDocuments(path, objects); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Read the direct children of dir and ensure that exactly one TanzuKubernetesRelease and
// exactly one ClusterBootstrapTemplate exist.
func Load(fsys afero.Fs, dir string) (*Store, error) {
	s, err := Read(fsys, dir, false)
	if err != nil {
		return nil, err
	}
	for _, kind := range []string{types.KindRelease, types.KindBootstrapTemplate} {
		manifests := s.byKind(kind)
		switch len(manifests) {
		case 0:
			return nil, types.NewManifestNotFoundError(kind, dir)
		case 1:
		default:
			return nil, types.NewDuplicateManifestError(kind, slices.Collect(manifests, func(m Manifest) string { return m.Source().Path })...)
		}
	}
	return s, nil
}

// Folder the store was read from.
func (s *Store) Dir() string {
	return s.dir
}

// Paths of all files in the store, in lexical order.
func (s *Store) Files() []string {
	return append([]string(nil), s.paths...)
}

// Documents of the given file, in the order they appear in the file.
func (s *Store) Documents(path string) []*unstructured.Unstructured {
	return append([]*unstructured.Unstructured(nil), s.documents[path]...)
}

// All manifests, ordered by file path and position within file.
func (s *Store) Manifests() []Manifest {
	var result []Manifest
	for _, path := range s.paths {
		result = append(result, s.manifests[path]...)
	}
	return result
}

// The TanzuKubernetesRelease; nil if the store contains none.
func (s *Store) Release() *Release {
	return first[*Release](s.Manifests())
}

// The ClusterBootstrapTemplate; nil if the store contains none.
func (s *Store) BootstrapTemplate() *BootstrapTemplate {
	return first[*BootstrapTemplate](s.Manifests())
}

func (s *Store) OSImages() []*OSImage {
	return filter[*OSImage](s.Manifests())
}

func (s *Store) Packages() []*Package {
	return filter[*Package](s.Manifests())
}

func (s *Store) Addons() []*Addon {
	return filter[*Addon](s.Manifests())
}

// Persist the file containing the given manifest (with all other documents in that file).
func (s *Store) Update(m Manifest) error {
	path := m.Source().Path
	if _, ok := s.documents[path]; !ok {
		return fmt.Errorf("manifest %s/%s does not belong to this store", m.GetKind(), m.GetName())
	}
	return s.UpdateAll(path, s.documents[path])
}

// Replace the documents of the given file by objects, and persist the file.
// Files with more than one document are written as multi-document YAML.
func (s *Store) UpdateAll(path string, objects []*unstructured.Unstructured) error {
	if _, ok := s.documents[path]; !ok {
		return fmt.Errorf("file %s does not belong to this store", path)
	}
	var buf bytes.Buffer
	for i, object := range objects {
		raw, err := kyaml.Marshal(object.Object)
		if err != nil {
			return types.NewIOError(errors.Wrapf(err, "error serializing document %d", i), path)
		}
		if i > 0 {
			buf.WriteString(documentSeparator)
		}
		buf.Write(raw)
	}
	if err := fileutils.WriteFileAtomic(s.fsys, path, buf.Bytes(), 0644); err != nil {
		return types.NewIOError(err, path)
	}
	return s.setDocuments(path, objects)
}

func (s *Store) readFile(path string) ([]*unstructured.Unstructured, error) {
	file, err := s.fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var objects []*unstructured.Unstructured
	reader := utilyaml.NewYAMLReader(bufio.NewReader(file))
	for i := 0; ; i++ {
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error reading document %d", i)
		}
		var object map[string]any
		if err := kyaml.Unmarshal(raw, &object); err != nil {
			return nil, errors.Wrapf(err, "error decoding document %d", i)
		}
		if object == nil {
			continue
		}
		objects = append(objects, &unstructured.Unstructured{Object: object})
	}
	return objects, nil
}

func (s *Store) setDocuments(path string, objects []*unstructured.Unstructured) error {
	manifests := make([]Manifest, len(objects))
	for i, object := range objects {
		manifest, err := Parse(object, Source{Path: path, Index: i})
		if err != nil {
			return types.NewIOError(err, path)
		}
		manifests[i] = manifest
	}
	s.documents[path] = objects
	s.manifests[path] = manifests
	return nil
}

func (s *Store) byKind(kind string) []Manifest {
	return slices.Select(s.Manifests(), func(m Manifest) bool { return m.GetKind() == kind })
}

func first[T Manifest](manifests []Manifest) T {
	var zero T
	for _, m := range manifests {
		if t, ok := m.(T); ok {
			return t
		}
	}
	return zero
}

func filter[T Manifest](manifests []Manifest) []T {
	var result []T
	for _, m := range manifests {
		if t, ok := m.(T); ok {
			result = append(result, t)
		}
	}
	return result
}
