package db

// SyncLock is a cooperative, timestamp-based mutual exclusion record used to
// keep scheduled coordinator runs from overlapping. A holder that dies leaves
// a record behind; it is treated as abandoned once older than the staleness
// threshold, so the worst case of a crash is one skipped window.
type SyncLock struct {
	Id          int64
	Name        string `gorm:"NOT NULL;uniqueIndex:idx_sync_lock_name;size:64"`
	CreatedTime int64  `gorm:"NOT NULL"`
}

func (*SyncLock) TableName() string {
	return "sync_locks"
}
