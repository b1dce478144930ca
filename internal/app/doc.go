// Package app is the composition root for stockroom.
//
// Run wires configuration, preferences, logging, the catalog client, the
// state store and the mutation coordinator, performs the initial load and
// hands control to the Bubble Tea UI:
//
//	config.Load ──► prefs.Load ──► logging.New
//	                                   │
//	catalog.NewClient ──► state.NewStore ──► mutation.New
//	                                   │
//	                         Coordinator.Load (non-fatal)
//	                                   │
//	                                ui.Run
//
// Export builds the same graph without the UI and writes a CSV of the
// filtered and sorted product list, or a single page of it.
package app
