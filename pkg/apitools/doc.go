// Package apitools provides the HTTP GET/POST tools the agent exposes
// to the model, plus the normalized Result record for each call.
//
// Invariants:
// - Every call produces a Result; transport and encoding failures are
//   captured in the record, never raised.
// - A request body that cannot be JSON-encoded fails before any network
//   I/O happens.
// - Calls are synchronous with no retries; the request timeout is fixed
//   at client construction.
package apitools
