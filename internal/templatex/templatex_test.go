/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package templatex_test

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sap/byoi/internal/templatex"
)

func execute(text string, data any) (string, error) {
	t := template.New("test").Funcs(sprig.TxtFuncMap()).Funcs(templatex.FuncMap())
	t = t.Funcs(templatex.FuncMapForTemplate(t))
	if _, err := t.Parse(text); err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ = Describe("testing: functions.go", func() {
	data := map[string]any{
		"kubernetes_version": "v1.28.0+vmware.1",
		"os_type":            "ubuntu-2204-efi",
		"tkr_suffix":         "abc",
		"repos":              map[string]any{"b": 1, "a": "x"},
	}

	DescribeTable("should render",
		func(text string, expected string) {
			result, err := execute(text, data)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(expected))
		},
		Entry("toYaml", `{{ toYaml .repos }}`, "a: x\nb: 1"),
		Entry("fromYaml", `{{ (fromYaml "a: 1\nb: two").b }}`, "two"),
		Entry("toJson", `{{ toJson .repos }}`, `{"a":"x","b":1}`),
		Entry("fromJson", "{{ (fromJson `{\"a\":\"y\"}`).a }}", "y"),
		Entry("required with value", `{{ required "os type missing" .os_type }}`, "ubuntu-2204-efi"),
		Entry("include", `{{ define "repo" }}[{{ . }}]{{ end }}{{ include "repo" "main" | upper }}`, "[MAIN]"),
		Entry("tpl", `{{ tpl "{{ .os_type }}-kube" . }}`, "ubuntu-2204-efi-kube"),
		Entry("encodeVersion", `{{ encodeVersion .kubernetes_version }}`, "v1-28-0---vmware-1"),
		Entry("versionSeries", `{{ versionSeries .kubernetes_version }}`, "v1.28.0"),
		Entry("formatName", `{{ formatName .tkr_suffix "ubuntu" "2204" "amd64" (encodeVersion .kubernetes_version) }}`, "ubuntu-2204-amd64-v1-28-0---vmware-1-abc"),
		Entry("formatName without suffix", `{{ formatName "" "photon" "5" }}`, "photon-5"),
	)

	DescribeTable("should fail",
		func(text string, message string) {
			_, err := execute(text, data)
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("required without value", `{{ required "host ip missing" .host_ip }}`, "host ip missing"),
		Entry("required with empty value", `{{ required "suffix missing" "" }}`, "suffix missing"),
		Entry("formatName without room for the suffix", `{{ formatName "abc" (repeat 63 "a") }}`, "no room left for suffix"),
		Entry("fromJson with invalid input", `{{ fromJson "{" }}`, "unexpected end of JSON input"),
		Entry("recursive include", `{{ define "loop" }}{{ include "loop" . }}{{ end }}{{ include "loop" . }}`, "nested reference name: loop"),
	)
})

var _ = Describe("testing: util.go", func() {
	It("should remove missing value markers", func() {
		Expect(string(templatex.AdjustTemplateOutput([]byte(`{"a": "<no value>", "b": "x"}`)))).To(Equal(`{"a": "", "b": "x"}`))
	})
})
