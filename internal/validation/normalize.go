// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail trims surrounding space and applies NFKC so visually equal
// addresses reach the provider as the same string. Case is preserved.
func NormalizeEmail(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}
