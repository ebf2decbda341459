/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package guard_test

import (
	"errors"

	"github.com/spf13/afero"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sap/byoi/pkg/guard"
	"github.com/sap/byoi/pkg/types"
)

var _ = Describe("testing: guard.go", func() {
	var fsys afero.Fs

	BeforeEach(func() {
		fsys = afero.NewMemMapFs()
		Expect(fsys.MkdirAll("/ova", 0755)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/ova/ubuntu-2204-amd64-v1-28-0---vmware-1-abc.ova", []byte("x"), 0644)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/ova/photon-5-amd64-v1-28-0---vmware-1-abc.ovf", []byte("x"), 0644)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/ova/package_list.json", []byte("{}"), 0644)).To(Succeed())
	})

	It("should fail if the artifact exists", func() {
		err := guard.New(fsys, "/ova").Check("ubuntu-2204-amd64-v1-28-0---vmware-1-abc")
		var collisionError types.ArtifactCollisionError
		Expect(errors.As(err, &collisionError)).To(BeTrue())
		Expect(collisionError.Path).To(Equal("/ova/ubuntu-2204-amd64-v1-28-0---vmware-1-abc.ova"))
	})

	DescribeTable("should pass if no artifact with that name exists",
		func(candidate string) {
			Expect(guard.New(fsys, "/ova").Check(candidate)).To(Succeed())
		},
		Entry("other suffix", "ubuntu-2204-amd64-v1-28-0---vmware-1-xyz"),
		Entry("prefix of an existing artifact", "ubuntu-2204-amd64-v1-28-0---vmware-1"),
		Entry("other extension only", "photon-5-amd64-v1-28-0---vmware-1-abc"),
		Entry("glob meta characters are literal", "ubuntu-*"),
	)

	It("should consider all configured extensions", func() {
		g := guard.New(fsys, "/ova", "ova", ".ovf")
		Expect(g.Check("photon-5-amd64-v1-28-0---vmware-1-abc")).To(BeAssignableToTypeOf(types.ArtifactCollisionError{}))
	})

	It("should pass if the folder does not exist", func() {
		Expect(guard.New(fsys, "/nothing").Check("ubuntu")).To(Succeed())
	})
})
