package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/google/uuid"
)

// Convert transforms a validated file into entries ready for persistence.
// Records without an id get a fresh one. Call Validate first.
func Convert(file *WorkTimeFile, now time.Time) ([]*domain.WorkTimeEntry, error) {
	entries := make([]*domain.WorkTimeEntry, 0, len(file.Entries))
	for i, rec := range file.Entries {
		start, err := time.Parse(time.RFC3339, rec.Start)
		if err != nil {
			return nil, fmt.Errorf("entries[%d]: parsing start: %w", i, err)
		}
		e := &domain.WorkTimeEntry{
			ID:        rec.ID,
			Start:     start,
			Memo:      rec.Memo,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if rec.End != nil {
			end, err := time.Parse(time.RFC3339, *rec.End)
			if err != nil {
				return nil, fmt.Errorf("entries[%d]: parsing end: %w", i, err)
			}
			e.End = &end
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FromEntries builds an export file. Times are written in loc.
func FromEntries(entries []*domain.WorkTimeEntry, exportedAt time.Time, loc *time.Location) *WorkTimeFile {
	file := &WorkTimeFile{
		Version:    SchemaVersion,
		ExportedAt: exportedAt.In(loc).Format(time.RFC3339),
		Entries:    make([]WorkTimeRecord, 0, len(entries)),
	}
	for _, e := range entries {
		rec := WorkTimeRecord{
			ID:    e.ID,
			Start: e.Start.In(loc).Format(time.RFC3339),
			Memo:  e.Memo,
		}
		if e.End != nil {
			end := e.End.In(loc).Format(time.RFC3339)
			rec.End = &end
		}
		file.Entries = append(file.Entries, rec)
	}
	return file
}
