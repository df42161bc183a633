// Package sources provides the two settings repositories the synchronizer
// reads from and writes to.
//
// Architecture:
//   - LocalSettingsRepository: settings kept as one YAML artifact per index
//     in a configurable directory, merged over the remote defaults on read
//   - RemoteSettingsRepository: the live settings of an index on the hosted
//     search service, reached through searchapi.Client
//
// Both repositories report failures with the typed errors declared in
// errors.go so callers can tell local faults, remote outages and missing
// indices apart with errors.As / errors.Is.
package sources
