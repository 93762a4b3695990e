// Package protocol owns the native messaging request/response contract.
//
// Ownership boundary:
// - length-prefixed JSON frames (see frame)
// - request method classification
// - per-method payload validation
// - response envelopes and fixed failure messages
package protocol
