// Package status keeps the per-index synchronization records (user data)
// that remember which settings were last known to match on both sides.
package status

import (
	"time"

	"github.com/stacklok/index-settings-sync/internal/settings"
)

// Direction is the direction of the last successful transfer
type Direction string

const (
	// DirectionDownload means remote settings were written to the local artifact
	DirectionDownload Direction = "download"

	// DirectionUpload means local settings were pushed to the remote index
	DirectionUpload Direction = "upload"
)

// SyncRecord is the persisted synchronization state of one index
type SyncRecord struct {
	// Index is the index name, the only join key between stores
	Index string `json:"index"`

	// SettingsHash is the fingerprint of the settings known to match local
	// and remote at the last successful transfer. Empty when never synced.
	SettingsHash settings.Fingerprint `json:"settingsHash,omitempty"`

	// LastSyncTime is the time of the last successful transfer
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`

	// LastDirection is the direction of the last successful transfer
	LastDirection Direction `json:"lastDirection,omitempty"`
}

// Synced reports whether the index was ever transferred
func (r *SyncRecord) Synced() bool {
	return r != nil && !r.SettingsHash.Empty()
}

// UserData is a partial update of a SyncRecord. Zero fields leave the
// stored value untouched.
type UserData struct {
	SettingsHash  settings.Fingerprint
	LastSyncTime  *time.Time
	LastDirection Direction
}

func (u UserData) fields() map[string]any {
	fields := map[string]any{}
	if !u.SettingsHash.Empty() {
		fields["settingsHash"] = string(u.SettingsHash)
	}
	if u.LastSyncTime != nil {
		fields["lastSyncTime"] = u.LastSyncTime.UTC().Format(time.RFC3339Nano)
	}
	if u.LastDirection != "" {
		fields["lastDirection"] = string(u.LastDirection)
	}
	return fields
}
