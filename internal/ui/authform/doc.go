// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package authform implements the sign-up / sign-in screen.

# Key Types

  - Form: the field descriptors, their validity and touched flags, and the
    sign-up/sign-in mode. Pure logic, no terminal I/O.
  - Model: the Bubble Tea model that renders a Form, forwards submits to an
    auth Service and re-renders on every auth.Store change.
  - Bridge: subscribes to the store and the HTTP error slot and forwards
    their changes to a running tea.Program in order.

# Usage

	model := authform.New(svc, store.State(), authform.Options{Theme: theme, Slot: slot})
	p := tea.NewProgram(model, tea.WithAltScreen())
	stop := authform.Bridge(store, slot, p.Send)
	defer stop()
	_, err := p.Run()
*/
package authform
