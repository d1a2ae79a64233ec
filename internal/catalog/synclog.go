package catalog

import (
	"strconv"
	"sync"
	"time"

	"github.com/jam3ahq/jam3a/pkg/common"
)

type SyncAction string

const (
	SyncActionCreate SyncAction = "create"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
	SyncActionBulk   SyncAction = "bulk"
	SyncActionImport SyncAction = "import"
	SyncActionExport SyncAction = "export"
)

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusError   SyncStatus = "error"
	SyncStatusWarning SyncStatus = "warning"
)

// SyncEntry records the outcome of one mutation attempt.
type SyncEntry struct {
	ID          string     `json:"id"`
	Action      SyncAction `json:"action"`
	Details     string     `json:"details"`
	Status      SyncStatus `json:"status"`
	AffectedIDs []string   `json:"affected_ids,omitempty"`
	Time        time.Time  `json:"time"`
}

// DefaultSyncLogCap bounds the audit history so a long admin session
// cannot grow it without limit.
const DefaultSyncLogCap = 500

// SyncLog is a bounded, newest-first audit trail of mutation attempts.
type SyncLog struct {
	mu      sync.Mutex
	entries []SyncEntry
	cap     int
}

func NewSyncLog(capacity int) *SyncLog {
	if capacity <= 0 {
		capacity = DefaultSyncLogCap
	}
	return &SyncLog{cap: capacity}
}

// Append prepends one entry, dropping the oldest once the cap is hit.
func (l *SyncLog) Append(action SyncAction, details string, status SyncStatus, affectedIDs []string) SyncEntry {
	entry := SyncEntry{
		ID:          strconv.FormatInt(common.UUIDint64(), 10),
		Action:      action,
		Details:     details,
		Status:      status,
		AffectedIDs: append([]string(nil), affectedIDs...),
		Time:        time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]SyncEntry{entry}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
	return entry
}

// Entries returns a copy of the history, most recent first.
func (l *SyncLog) Entries() []SyncEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SyncEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *SyncLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
