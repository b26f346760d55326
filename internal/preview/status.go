package preview

import (
	"sync"
	"time"
)

// BuildStatus tracks the outcome of the most recent preview rebuild.
type BuildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	builds       int
	hasGoodBuild bool // true if at least one successful build exists
}

// StatusSnapshot is the JSON form served at the status endpoint.
type StatusSnapshot struct {
	Builds       int       `json:"builds"`
	LastBuild    time.Time `json:"last_build,omitzero"`
	LastError    string    `json:"last_error,omitempty"`
	HasGoodBuild bool      `json:"has_good_build"`
}

// SetError records a failed build.
func (bs *BuildStatus) SetError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
	bs.builds++
}

// SetSuccess records a successful build.
func (bs *BuildStatus) SetSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuild = time.Now()
	bs.builds++
	bs.hasGoodBuild = true
}

// Snapshot returns a consistent copy of the status.
func (bs *BuildStatus) Snapshot() StatusSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	s := StatusSnapshot{
		Builds:       bs.builds,
		LastBuild:    bs.lastBuild,
		HasGoodBuild: bs.hasGoodBuild,
	}
	if bs.lastError != nil {
		s.LastError = bs.lastError.Error()
	}
	return s
}
