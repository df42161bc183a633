// Package sync orchestrates the transfer of index settings between the
// local settings artifacts and the hosted search service.
//
// # Core Interface
//
//   - Synchronizer: Analyse classifies the drift of one index without side
//     effects, Download overwrites the local artifact with the remote
//     settings, Upload replaces the remote settings with the local artifact
//     merged over the remote defaults.
//
// Every successful transfer records the fingerprint of the transferred
// settings in the user data repository. That fingerprint is the common
// ancestor the drift classifier compares both sides against.
//
// Errors from the repositories are returned as they are, so callers can
// match sources.ErrIndexNotFound, *sources.RemoteUnavailableError,
// *sources.RepositoryError and *settings.CompileError directly. A failed
// step leaves the earlier steps applied; there is no rollback.
//
// # Coordinator Package
//
// The sync/coordinator subpackage runs Analyse periodically for the indices
// listed in the watch configuration and keeps the latest status of each
// index for the HTTP API.
//
// # State Package
//
// The sync/state subpackage provides the key-value backends (file,
// database, embedded, memory) behind the user data repository.
package sync
