package transcriptcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"captioner/internal/acquire"
	"captioner/internal/captions"
)

// Key identifies one cached transcript.
type Key struct {
	ResourceID string
	TrackKind  acquire.TrackKind
	Language   string
}

// Entry is a cached, already-normalized transcript.
type Entry struct {
	Key
	Format     captions.Format
	Provenance acquire.Provenance
	Text       string
	CreatedAt  time.Time
}

// KeyFor derives the cache key of a validated request.
func KeyFor(req acquire.Request) Key {
	return Key{ResourceID: req.ResourceID, TrackKind: req.TrackKind, Language: req.Language}
}

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const entryColumns = "resource_id, track_kind, language, format, provenance, text, created_at"

// Lookup returns the entry for key, or nil when nothing is cached.
func (c *Cache) Lookup(ctx context.Context, key Key) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := c.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM transcripts WHERE resource_id = ? AND track_kind = ? AND language = ?",
		key.ResourceID, string(key.TrackKind), key.Language,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup transcript: %w", err)
	}
	return entry, nil
}

// Store inserts or replaces entry. A zero CreatedAt is set to now.
func (c *Cache) Store(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.ResourceID) == "" {
		return errors.New("store transcript: resource id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now()
	}
	_, err := c.execWithRetry(ctx,
		`INSERT INTO transcripts (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(resource_id, track_kind, language) DO UPDATE SET
            format = excluded.format,
            provenance = excluded.provenance,
            text = excluded.text,
            created_at = excluded.created_at`,
		entry.ResourceID,
		string(entry.TrackKind),
		entry.Language,
		entry.Format.String(),
		string(entry.Provenance),
		entry.Text,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}
	return nil
}

// List returns every entry, newest first.
func (c *Cache) List(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := c.db.QueryContext(ctx, "SELECT "+entryColumns+" FROM transcripts ORDER BY created_at DESC, resource_id")
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Remove deletes every entry for resourceID and reports how many were removed.
func (c *Cache) Remove(ctx context.Context, resourceID string) (int64, error) {
	res, err := c.execWithRetry(ctx, "DELETE FROM transcripts WHERE resource_id = ?", resourceID)
	if err != nil {
		return 0, fmt.Errorf("remove transcripts: %w", err)
	}
	return res.RowsAffected()
}

// Prune deletes entries created more than olderThan ago. A non-positive
// olderThan clears the cache.
func (c *Cache) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := "DELETE FROM transcripts"
	var args []any
	if olderThan > 0 {
		query += " WHERE created_at < ?"
		args = append(args, c.now().Add(-olderThan).UTC().Format(timeLayout))
	}
	res, err := c.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune transcripts: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		resourceID, trackKind, lang string
		formatRaw, provenance, text string
		createdRaw                  string
	)
	if err := scanner.Scan(&resourceID, &trackKind, &lang, &formatRaw, &provenance, &text, &createdRaw); err != nil {
		return nil, err
	}
	format, err := captions.ParseFormat(formatRaw)
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		Key:        Key{ResourceID: resourceID, TrackKind: acquire.TrackKind(trackKind), Language: lang},
		Format:     format,
		Provenance: acquire.Provenance(provenance),
		Text:       text,
	}
	if created, err := time.Parse(timeLayout, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}
