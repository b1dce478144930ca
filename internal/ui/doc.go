// Package ui implements the interactive product dashboard on Bubble Tea.
//
// Model is a value-receiver tea.Model. It never owns product data: every
// change goes through state.Store (search, sort, paging) or
// mutation.Coordinator (load, create, update, delete), after which the model
// copies a fresh state.Snapshot for rendering. Network calls run inside
// tea.Cmd functions and report back as messages, so Update never blocks.
//
// The screen is split into a header, a command bar, a status line showing
// the search input or the latest banner, the product table and a footer
// with the visible range and page window. Help, product detail, the create
// and edit form, delete confirmation and the activity log are overlays
// selected by the current mode.
//
// Key bindings live in keys.go and are listed by the help overlay.
package ui
