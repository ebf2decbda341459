/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package templatex

import "bytes"

// Templates are rendered with missingkey=zero; a key missing in a map[string]any still renders as '<no value>'.
// Such occurrences are replaced by the empty string (the same way Helm does it).
func AdjustTemplateOutput(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte("<no value>"), []byte(""))
}
