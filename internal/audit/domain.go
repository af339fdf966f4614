package audit

import (
	"context"
	"time"
)

// Entry adalah satu catatan audit yang sudah dilokalkan. Append-only:
// tidak pernah diubah atau dihapus oleh modul ini.
type Entry struct {
	ID         string
	ActorID    int64
	Language   string
	Message    string
	TargetPath string
	CreatedAt  time.Time
}

// Subject identifies the entity an action was performed on.
type Subject struct {
	Kind        string
	DisplayName string
}

// UserSubject builds the subject for actions on user accounts.
func UserSubject(displayName string) Subject {
	return Subject{Kind: "user", DisplayName: displayName}
}

// InsertPort persists entries. Insert-only; failures propagate to the
// caller's transaction boundary.
type InsertPort interface {
	Insert(ctx context.Context, entry Entry) error
}

// ListFilters membatasi hasil listing audit.
type ListFilters struct {
	ActorID  int64
	Language string
	Page     int
	PageSize int
}

// ListPort reads entries back for the admin timeline. Count uses the
// same filters so the handler can report pagination metadata.
type ListPort interface {
	List(ctx context.Context, filters ListFilters) ([]Entry, error)
	Count(ctx context.Context, filters ListFilters) (int, error)
}
