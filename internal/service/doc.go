// Package service implements the settings edits for the inspection network
// application.
//
// SettingsService sits between the HTTP handlers (or any other UI) and the
// store. Each edit works on a copy of the settings tree, persists the
// normalized result immediately, and publishes an event carrying the
// current diagnostic count.
//
// # Event System
//
// EventBus fans events out to subscribers without blocking; the SSE hub is
// the main subscriber.
//
// # Design Principles
//
// - Every field edit persists; there is no batching
// - Validation is reported, never enforced
// - The item type limit is a soft affordance on add only
package service
