/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

/*
Package manifests contains the typed view on release metadata manifests (TanzuKubernetesRelease, OSImage,
ClusterBootstrapTemplate, Package, and everything else as addon), and the Store which loads such manifests
from a folder and writes them back.
*/
package manifests
