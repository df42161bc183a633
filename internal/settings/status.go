package settings

import (
	"bytes"
	"fmt"
	"sort"
)

// State is the synchronization state of one index.
type State string

const (
	// StateInSync means local and remote settings hold the same content
	StateInSync State = "in-sync"

	// StateRemoteAhead means the remote settings changed since the last sync
	// while the local artifact did not. Downloading is safe.
	StateRemoteAhead State = "remote-ahead"

	// StateLocalAhead means the local artifact changed since the last sync
	// while the remote settings did not. Uploading is safe.
	StateLocalAhead State = "local-ahead"

	// StateDiverged means both sides changed since the last sync, or there is
	// no record of a previous sync. Neither direction is safe without an
	// operator decision.
	StateDiverged State = "diverged"
)

// Status is the advisory drift classification of one index.
type Status struct {
	Index string `json:"index"`
	State State  `json:"state"`

	LocalHash  Fingerprint `json:"localHash"`
	RemoteHash Fingerprint `json:"remoteHash"`
	StoredHash Fingerprint `json:"storedHash,omitempty"`

	// LocalExists is false when the local settings were derived from the
	// remote defaults because no artifact exists yet.
	LocalExists bool `json:"localExists"`

	// ChangedKeys lists the settings whose values differ between local and remote.
	ChangedKeys []string `json:"changedKeys,omitempty"`
}

// Input groups what the classifier needs for one index.
type Input struct {
	Index       string
	Local       Settings
	Remote      Settings
	Stored      Fingerprint
	LocalExists bool
}

// Classify fingerprints both sides and applies the drift decision table:
//
//	local == remote                       -> in-sync
//	local == stored, remote != stored     -> remote-ahead
//	remote == stored, local != stored     -> local-ahead
//	otherwise                             -> diverged
//
// An absent stored fingerprint matches neither side.
func Classify(enc *Encrypter, in Input) (*Status, error) {
	localHash, err := enc.Encrypt(in.Local)
	if err != nil {
		return nil, fmt.Errorf("local settings for %s: %w", in.Index, err)
	}
	remoteHash, err := enc.Encrypt(in.Remote)
	if err != nil {
		return nil, fmt.Errorf("remote settings for %s: %w", in.Index, err)
	}

	st := &Status{
		Index:       in.Index,
		State:       decide(localHash, remoteHash, in.Stored),
		LocalHash:   localHash,
		RemoteHash:  remoteHash,
		StoredHash:  in.Stored,
		LocalExists: in.LocalExists,
	}
	if st.State != StateInSync {
		st.ChangedKeys = ChangedKeys(in.Local, in.Remote)
	}
	return st, nil
}

func decide(local, remote, stored Fingerprint) State {
	if local == remote {
		return StateInSync
	}

	localMatches := !stored.Empty() && local == stored
	remoteMatches := !stored.Empty() && remote == stored

	switch {
	case localMatches && !remoteMatches:
		return StateRemoteAhead
	case remoteMatches && !localMatches:
		return StateLocalAhead
	case localMatches && remoteMatches:
		// Both matching the stored hash implies local == remote
		return StateInSync
	default:
		return StateDiverged
	}
}

// ChangedKeys returns the sorted names of settings whose canonical values
// differ between a and b, including keys present on one side only.
func ChangedKeys(a, b Settings) []string {
	seen := map[string]struct{}{}
	var changed []string
	check := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}

		av, aok := a.Get(k)
		bv, bok := b.Get(k)
		if aok != bok {
			changed = append(changed, k)
			return
		}
		ac, aerr := CanonicalValue(av)
		bc, berr := CanonicalValue(bv)
		if aerr != nil || berr != nil || !bytes.Equal(ac, bc) {
			changed = append(changed, k)
		}
	}
	for _, k := range a.keys {
		check(k)
	}
	for _, k := range b.keys {
		check(k)
	}
	sort.Strings(changed)
	return changed
}

// InSync reports whether local and remote hold the same content.
func (s *Status) InSync() bool {
	return s.State == StateInSync
}

// Conflicts reports whether a transfer would overwrite unsynced changes on its
// destination. A download onto a missing local file overwrites nothing.
func (s *Status) Conflicts(download bool) bool {
	if s.State != StateDiverged {
		return false
	}
	return !download || s.LocalExists
}

// String returns a short human readable description of the status.
func (s *Status) String() string {
	switch s.State {
	case StateInSync:
		if !s.LocalExists {
			return "Remote settings match the defaults; no local file yet"
		}
		return "Local and remote settings match"
	case StateRemoteAhead:
		return "Remote settings changed since the last sync; download to update the local file"
	case StateLocalAhead:
		return "Local settings changed since the last sync; upload to update the remote index"
	case StateDiverged:
		if s.StoredHash.Empty() {
			return "Local and remote settings differ and were never synced; pick a side with download or upload"
		}
		return "Local and remote settings both changed since the last sync; pick a side with download or upload"
	default:
		return string(s.State)
	}
}
