/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package types

const (
	KindRelease           = "TanzuKubernetesRelease"
	KindOSImage           = "OSImage"
	KindBootstrapTemplate = "ClusterBootstrapTemplate"
	KindPackage           = "Package"
)

const (
	// Maximum length of a Kubernetes object name (DNS-1123 label).
	MaxObjectNameLength = 63
)

const (
	ConfigFolderName   = "config"
	PackagesFolderName = "packages"
)

const (
	ArtifactExtensionOva = "ova"
	PackageListFileName  = "package_list.json"
	PackerVariablesFile  = "packer-variables.json"
)
