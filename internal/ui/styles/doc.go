// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling of the rigrun-auth screens.

All colors use Lip Gloss AdaptiveColor so they follow the terminal's light or
dark background, unless the configured theme forces one.

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	card := theme.Card.Render(form)

Status lines always carry an ASCII indicator ([OK], [X], [!], [i]) next to
the color.
*/
package styles
