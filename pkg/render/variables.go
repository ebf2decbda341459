/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/sap/byoi/pkg/names"
	"github.com/sap/byoi/pkg/types"
)

const (
	VariableKubernetes                 = "kubernetes"
	VariableKubernetesVersion          = "kubernetes_version"
	VariableKubernetesSeries           = "kubernetes_series"
	VariableGatewayPackagePresent      = "gateway_package_present"
	VariableUseArtifactServerGoss      = "use_artifact_server_goss"
	VariableCapabilitiesPackagePresent = "capabilities_package_present"
	VariableRegistryStorePath          = "registry_store_path"
	VariableOSType                     = "os_type"
)

const registryStoreDefaultArchitecture = "amd64"

var (
	gatewayPackageMinVersion      = semver.MustParse("1.27.0")
	artifactServerGossMinVersion  = semver.MustParse("1.31.0")
	capabilitiesPackageMaxVersion = semver.MustParse("1.31.0")
)

// Variables is the immutable set of values available to the packer variable templates.
type Variables struct {
	values map[string]any
}

// Assemble the template variables. Precedence (lowest first): arguments, kubernetesConfig, derived values, localhostPaths.
// The kubernetesConfig must contain the Kubernetes version under the key 'kubernetes'.
// The arguments must contain the OS type under the key 'os_type'.
// Inputs are copied; later changes to them do not affect the returned value.
func NewVariables(kubernetesConfig map[string]any, arguments map[string]string, localhostPaths map[string]string) (*Variables, error) {
	values := make(map[string]any)
	for k, v := range arguments {
		values[k] = v
	}
	for k, v := range runtime.DeepCopyJSON(kubernetesConfig) {
		values[k] = v
	}

	kubernetesVersion, err := cast.ToStringE(kubernetesConfig[VariableKubernetes])
	if err != nil || kubernetesVersion == "" {
		return nil, types.NewInvalidNameError(fmt.Sprint(kubernetesConfig[VariableKubernetes]), "kubernetes configuration lacks a valid kubernetes version")
	}
	kubernetesSeries := names.Series(kubernetesVersion)
	version, err := semver.NewVersion(strings.TrimPrefix(kubernetesSeries, "v"))
	if err != nil {
		return nil, types.NewInvalidNameError(kubernetesVersion, err.Error())
	}
	// prerelease notations are ignored where only the release line matters
	coreVersion := semver.New(version.Major(), version.Minor(), version.Patch(), "", "")

	values[VariableKubernetesVersion] = kubernetesVersion
	values[VariableKubernetesSeries] = kubernetesSeries
	values[VariableGatewayPackagePresent] = coreVersion.Compare(gatewayPackageMinVersion) >= 0
	values[VariableUseArtifactServerGoss] = version.Compare(artifactServerGossMinVersion) >= 0
	values[VariableCapabilitiesPackagePresent] = coreVersion.Compare(capabilitiesPackageMaxVersion) < 0
	values[VariableRegistryStorePath] = RegistryStorePath(arguments[VariableOSType])

	for k, v := range localhostPaths {
		values[k] = v
	}

	return &Variables{values: values}, nil
}

// Get the value of a single variable.
func (v *Variables) Get(key string) (any, bool) {
	value, ok := v.values[key]
	return value, ok
}

// Return a copy of all variables.
func (v *Variables) Map() map[string]any {
	return runtime.DeepCopyJSON(v.values)
}

func (v *Variables) String() string {
	raw, err := json.Marshal(v.values)
	if err != nil {
		return fmt.Sprintf("%v", v.values)
	}
	return string(raw)
}

// Name of the registry tarball for the given OS type, e.g. registry-linux-amd64.tar.gz or registry-windows-amd64-2019.tar.gz.
func RegistryStorePath(osType string) string {
	osTypeParts := strings.Split(osType, "-")
	osName := "linux"
	archVariants := []string{registryStoreDefaultArchitecture}
	if strings.ToLower(osTypeParts[0]) == "windows" {
		osName = "windows"
		if len(osTypeParts) > 1 {
			archVariants = append(archVariants, osTypeParts[1])
		}
	}
	return fmt.Sprintf("registry-%s-%s.tar.gz", osName, strings.Join(archVariants, "-"))
}

// Read the kubernetes configuration (a JSON object) from path.
func LoadKubernetesConfig(fsys afero.Fs, path string) (map[string]any, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, types.NewIOError(err, path)
	}
	var config map[string]any
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, types.NewIOError(errors.Wrap(err, "error decoding kubernetes configuration"), path)
	}
	return config, nil
}
