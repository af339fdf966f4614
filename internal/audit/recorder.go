package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/meridian-cms/meridian-cms/internal/i18n"
)

// Recorder menulis satu peristiwa administratif sebagai satu entri per
// bahasa yang dikonfigurasi. Semua varian berbagi ID dan timestamp yang
// sama; hanya bahasa dan teks pesannya yang berbeda.
type Recorder struct {
	repo      InsertPort
	catalog   *i18n.Catalog
	languages []language.Tag

	now   func() time.Time
	newID func() string
}

// NewRecorder constructs a Recorder writing entries for the given
// display languages.
func NewRecorder(repo InsertPort, catalog *i18n.Catalog, languages []language.Tag) *Recorder {
	return &Recorder{
		repo:      repo,
		catalog:   catalog,
		languages: languages,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Record persists the localized log entries for one action. An action
// tag without a message template for a language is skipped for that
// language; a tag with no template in any language produces no entries
// and no error. Only interesting actions carry templates.
func (r *Recorder) Record(ctx context.Context, actorID int64, actionTag string, subject Subject, targetPath string) error {
	key := "audit." + subject.Kind + "." + actionTag
	id := r.newID()
	at := r.now().UTC()

	for _, lang := range r.languages {
		format, ok := r.catalog.Lookup(lang, key)
		if !ok {
			continue
		}
		entry := Entry{
			ID:         id,
			ActorID:    actorID,
			Language:   lang.String(),
			Message:    fmt.Sprintf(format, subject.DisplayName),
			TargetPath: targetPath,
			CreatedAt:  at,
		}
		if err := r.repo.Insert(ctx, entry); err != nil {
			return fmt.Errorf("audit: insert entry: %w", err)
		}
	}
	return nil
}
