// Package server implements the activity API HTTP surface.
//
// Owns:
//   - Path/method normalization and the fixed routing table
//   - Admin token checks on mutating routes (Guard)
//   - Status item and log feed validation (StatusManager, LogManager)
//   - The JSON envelope for success, validation, not-found and internal errors
//   - The SQLite persistence port and its embedded migrations
//
// Does not own:
//   - Process startup and configuration loading (cmd/activity-server)
//
// Invariants:
//   - Protected routes never reach the Store without a valid X-Admin-Token
//   - Validation failures abort before any Store call
//   - Every response, including errors, carries CORS headers
//   - No transactions: reorder writes one row at a time
package server
