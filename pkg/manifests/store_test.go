/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifests_test

import (
	"errors"
	"strings"

	"github.com/spf13/afero"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/sap/byoi/internal/testing"
	"github.com/sap/byoi/pkg/manifests"
	"github.com/sap/byoi/pkg/types"
)

const configDir = "/metadata/config"

var _ = Describe("testing: store.go", func() {
	var fsys afero.Fs

	BeforeEach(func() {
		var err error
		fsys, err = NewMemFsFrom("../../internal/testing/testdata/metadata", "/metadata")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should load and classify all documents", func() {
		store, err := manifests.Load(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(store.Release()).NotTo(BeNil())
		Expect(store.Release().GetName()).To(Equal("v1-28-0---vmware-1"))
		Expect(store.Release().KubernetesVersion()).To(Equal("v1.28.0+vmware.1"))
		Expect(store.BootstrapTemplate()).NotTo(BeNil())

		osImages := store.OSImages()
		Expect(osImages).To(HaveLen(2))
		Expect(osImages[0].OSName()).To(Equal("photon"))
		Expect(osImages[1].OSName()).To(Equal("ubuntu"))
		Expect(osImages[1].OSVersion()).To(Equal("22.04"))
		Expect(osImages[1].OSArch()).To(Equal("amd64"))

		Expect(store.Addons()).To(HaveLen(6))
		Expect(store.Packages()).To(BeEmpty())
		Expect(store.Files()).To(HaveLen(6))
		Expect(store.Documents(configDir + "/addons.yaml")).To(HaveLen(4))
	})

	It("should read packages recursively", func() {
		store, err := manifests.Read(fsys, "/metadata/packages", true)
		Expect(err).NotTo(HaveOccurred())
		packages := store.Packages()
		Expect(packages).To(HaveLen(3))
		Expect(packages[0].RefName()).To(Equal("antrea.tanzu.vmware.com"))
		Expect(packages[0].BundleImage()).To(HavePrefix("localhost:5000/tkg/packages/core/antrea@sha256:"))
		Expect(packages[2].BundleImage()).To(BeEmpty())
	})

	It("should treat a missing folder as empty", func() {
		store, err := manifests.Read(fsys, "/does/not/exist", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Manifests()).To(BeEmpty())
	})

	DescribeTable("should fail if a required manifest is missing",
		func(file string, kind string) {
			Expect(fsys.Remove(configDir + "/" + file)).To(Succeed())
			_, err := manifests.Load(fsys, configDir)
			var notFoundError types.ManifestNotFoundError
			Expect(errors.As(err, &notFoundError)).To(BeTrue())
			Expect(notFoundError.Kind).To(Equal(kind))
		},
		Entry(nil, "tkr.yaml", types.KindRelease),
		Entry(nil, "cbt.yaml", types.KindBootstrapTemplate),
	)

	It("should fail if there is more than one release", func() {
		raw, err := afero.ReadFile(fsys, configDir+"/tkr.yaml")
		Expect(err).NotTo(HaveOccurred())
		Expect(afero.WriteFile(fsys, configDir+"/tkr2.yaml", raw, 0644)).To(Succeed())
		_, err = manifests.Load(fsys, configDir)
		Expect(err).To(BeAssignableToTypeOf(types.DuplicateManifestError{}))
	})

	DescribeTable("should fail fast on malformed documents",
		func(document string) {
			Expect(afero.WriteFile(fsys, configDir+"/broken.yaml", []byte(document), 0644)).To(Succeed())
			_, err := manifests.Load(fsys, configDir)
			var ioError types.IOError
			Expect(errors.As(err, &ioError)).To(BeTrue())
			Expect(ioError.Path()).To(Equal(configDir + "/broken.yaml"))
		},
		Entry("missing kind", "metadata:\n  name: x\n"),
		Entry("non-string kind", "kind: 42\nmetadata:\n  name: x\n"),
		Entry("missing name", "kind: AntreaConfig\n"),
		Entry("os image without os", "kind: OSImage\nmetadata:\n  name: x\nspec: {}\n"),
		Entry("release without version", "kind: TanzuKubernetesRelease\nmetadata:\n  name: x\nspec:\n  kubernetes: {}\n"),
		Entry("invalid yaml", "kind: [\n"),
	)

	It("should write back single documents", func() {
		store, err := manifests.Load(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())

		release := store.Release()
		release.SetName("v1-28-0---vmware-1-abc")
		release.SetVersion("v1.28.0+vmware.1-abc")
		release.SetOSImages([]string{"a", "b"})
		Expect(store.Update(release)).To(Succeed())

		document, err := ReadYAML(fsys, configDir+"/tkr.yaml")
		Expect(err).NotTo(HaveOccurred())
		object := &unstructured.Unstructured{Object: document}
		Expect(object.GetName()).To(Equal("v1-28-0---vmware-1-abc"))
		Expect(document).To(HaveKeyWithValue("spec", HaveKeyWithValue("version", "v1.28.0+vmware.1-abc")))
		Expect(document).To(HaveKeyWithValue("spec", HaveKeyWithValue("osImages", Equal([]any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}))))

		reloaded, err := manifests.Load(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.Release().GetName()).To(Equal("v1-28-0---vmware-1-abc"))
	})

	It("should keep multi-document files multi-document", func() {
		store, err := manifests.Load(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())

		path := configDir + "/addons.yaml"
		documents := store.Documents(path)
		documents[1].SetName("renamed")
		Expect(store.UpdateAll(path, documents)).To(Succeed())

		raw, err := afero.ReadFile(fsys, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(string(raw), "\n---\n")).To(Equal(3))

		reloaded, err := manifests.Load(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())
		names := []string{}
		for _, document := range reloaded.Documents(path) {
			names = append(names, document.GetName())
		}
		Expect(names).To(Equal([]string{"v1-28-0---vmware-1", "renamed", "v1-28-0---vmware-1", "v1-28-0---vmware-1-kapp-controller-config"}))
	})

	It("should not leave temporary files behind", func() {
		store, err := manifests.Load(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Update(store.BootstrapTemplate())).To(Succeed())
		entries, err := afero.ReadDir(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(6))
	})

	It("should reject files not belonging to the store", func() {
		store, err := manifests.Load(fsys, configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.UpdateAll("/elsewhere.yaml", nil)).NotTo(Succeed())
	})
})
