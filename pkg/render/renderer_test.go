/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package render_test

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/afero"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/sap/byoi/internal/testing"
	"github.com/sap/byoi/pkg/render"
	"github.com/sap/byoi/pkg/types"
)

var _ = Describe("testing: renderer.go", func() {
	var fsys afero.Fs
	var renderer *render.Renderer

	BeforeEach(func() {
		var err error
		fsys, err = NewMemFsFrom("../../internal/testing/testdata", "/data")
		Expect(err).NotTo(HaveOccurred())
		config, err := render.LoadKubernetesConfig(fsys, "/data/kubernetes.json")
		Expect(err).NotTo(HaveOccurred())
		variables, err := render.NewVariables(config, map[string]string{
			"os_type":                  "ubuntu-2204-efi",
			"host_ip":                  "10.0.0.1",
			"artifacts_container_port": "8081",
			"packer_http_port":         "8082",
			"ova_ts_suffix":            "1700000000",
		}, map[string]string{
			"antrea_package_localhost_path": "localhost:5000/tkg/packages/core/antrea",
		})
		Expect(err).NotTo(HaveOccurred())
		renderer = render.NewRenderer(fsys, variables)
	})

	It("should layer generic and OS specific templates", func() {
		values, err := renderer.RenderFolder(ctx, "/data/packer-variables", "ubuntu-2204-efi")
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(Equal(map[string]any{
			"kubernetes_semver":       "v1.28.0+vmware.1",
			"kubernetes_series":       "v1.28.0",
			"image_version":           "v1-28-0---vmware-1",
			"vm_name":                 "ubuntu-2204-efi-v1-28-0---vmware-1-1700000000",
			"kubernetes_deb_version":  "1.28.0-1",
			"build_name":              "ubuntu-2204-efi-kube-v1.28.0-1700000000",
			"artifacts_url":           "http://10.0.0.1:8081",
			"http_port_min":           "8082",
			"disk_size":               "81920",
			"gateway_package_present": "true",
			"antrea_image":            "localhost:5000/tkg/packages/core/antrea",
			"registry_store_path":     "registry-linux-amd64.tar.gz",
			"goss_url":                "",
			"distro_name":             "ubuntu",
			"distro_version":          "22.04",
		}))
	})

	It("should skip folders of other OS types", func() {
		values, err := renderer.RenderFolder(ctx, "/data/packer-variables", "photon-5")
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(HaveKeyWithValue("distro_name", "photon"))
		Expect(values).To(HaveKeyWithValue("disk_size", "20480"))
		Expect(values).NotTo(HaveKey("distro_version"))
	})

	It("should replace nested values of less specific templates as a whole", func() {
		Expect(afero.WriteFile(fsys, "/data/packer-variables/vars.json", []byte(`{"goss_vars": {"a": "1", "b": "2"}}`), 0644)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/data/packer-variables/ubuntu/vars.json", []byte(`{"goss_vars": {"a": "3"}}`), 0644)).To(Succeed())
		values, err := renderer.RenderFolder(ctx, "/data/packer-variables", "ubuntu")
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(HaveKeyWithValue("goss_vars", map[string]any{"a": "3"}))
	})

	It("should fail on templates not producing JSON", func() {
		Expect(afero.WriteFile(fsys, "/data/packer-variables/broken.json", []byte(`{"x": {{ .host_ip }}}`), 0644)).To(Succeed())
		_, err := renderer.RenderFolder(ctx, "/data/packer-variables", "ubuntu")
		Expect(err).To(BeAssignableToTypeOf(types.IOError{}))
	})

	It("should apply extra repositories and additional variables last", func() {
		Expect(afero.WriteFile(fsys, "/extra/a.list", []byte("deb http://example.com stable main"), 0644)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/extra/b.list", []byte("deb http://example.org stable main"), 0644)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/extra/first.json", []byte(`{"disk_size": "1", "custom": "a"}`), 0644)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/extra/second.json", []byte(`{"disk_size": "2"}`), 0644)).To(Succeed())
		os.Setenv("BYOI_TEST_EXTRA", "/extra")
		defer os.Unsetenv("BYOI_TEST_EXTRA")

		values, err := renderer.Render(ctx, render.RenderOptions{
			Folder:                  "/data/packer-variables",
			OSType:                  "ubuntu-2204",
			ExtraRepoFiles:          []string{"/extra/a.list", "/extra/missing.list", "${BYOI_TEST_EXTRA}/b.list"},
			AdditionalVariableFiles: []string{"/extra/first.json", "/extra/missing.json", "${BYOI_TEST_EXTRA}/second.json"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(HaveKeyWithValue("extra_repos", "/extra/a.list /extra/b.list"))
		Expect(values).To(HaveKeyWithValue("remove_extra_repos", "true"))
		Expect(values).To(HaveKeyWithValue("disk_size", "2"))
		Expect(values).To(HaveKeyWithValue("custom", "a"))
		Expect(values).To(HaveKeyWithValue("distro_version", "22.04"))
	})

	It("should not add repository variables if no repositories are given", func() {
		values, err := renderer.Render(ctx, render.RenderOptions{Folder: "/data/packer-variables", OSType: "photon"})
		Expect(err).NotTo(HaveOccurred())
		Expect(values).NotTo(HaveKey("extra_repos"))
		Expect(values).NotTo(HaveKey("remove_extra_repos"))
	})

	It("should write the packer variables file", func() {
		path, err := render.WriteVariables(fsys, "/data", map[string]any{"b": "2", "a": "1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/data/packer-variables.json"))
		raw, err := afero.ReadFile(fsys, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal("{\n    \"a\": \"1\",\n    \"b\": \"2\"\n}\n"))
		var values map[string]any
		Expect(json.Unmarshal(raw, &values)).To(Succeed())
		Expect(strings.Count(string(raw), "\n")).To(Equal(4))
	})
})
