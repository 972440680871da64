// Package journal keeps written entries and saved drawings, newest first.
package journal

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyEntry = errors.New("journal entry is empty")
	ErrNotPNG     = errors.New("drawing is not a PNG image")
)

const pngDataPrefix = "data:image/png;base64,"

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// Entry is one written journal entry.
type Entry struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
	Mood    string    `json:"mood,omitempty"`
}

// Store persists JSON documents by key.
type Store interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

type Journal struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func New(store Store, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{store: store, logger: logger, now: time.Now}
}

// Entries returns entries newest first.
func (j *Journal) Entries() ([]Entry, error) {
	var entries []Entry
	if _, err := j.store.LoadJSON(db.KeyJournalEntries, &entries); err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	return entries, nil
}

// Write adds an entry at the top of the journal.
func (j *Journal) Write(content, mood string) (Entry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Entry{}, ErrEmptyEntry
	}

	entries, err := j.Entries()
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		ID:      uuid.NewString(),
		Date:    j.now(),
		Content: content,
		Mood:    strings.TrimSpace(mood),
	}
	entries = append([]Entry{e}, entries...)
	if err := j.store.SaveJSON(db.KeyJournalEntries, entries); err != nil {
		return Entry{}, fmt.Errorf("save journal: %w", err)
	}

	j.logger.Info("Journal entry written", zap.String("entry_id", e.ID))
	return e, nil
}

// Drawings returns saved drawings as PNG data URLs, newest first.
func (j *Journal) Drawings() ([]string, error) {
	var drawings []string
	if _, err := j.store.LoadJSON(db.KeyCreativeDrawings, &drawings); err != nil {
		return nil, fmt.Errorf("load drawings: %w", err)
	}
	return drawings, nil
}

// SaveDrawing stores PNG bytes as a data URL at the top of the gallery.
func (j *Journal) SaveDrawing(png []byte) (string, error) {
	if !bytes.HasPrefix(png, pngMagic) {
		return "", ErrNotPNG
	}

	drawings, err := j.Drawings()
	if err != nil {
		return "", err
	}

	url := pngDataPrefix + base64.StdEncoding.EncodeToString(png)
	drawings = append([]string{url}, drawings...)
	if err := j.store.SaveJSON(db.KeyCreativeDrawings, drawings); err != nil {
		return "", fmt.Errorf("save drawings: %w", err)
	}

	j.logger.Info("Drawing saved", zap.Int("bytes", len(png)), zap.Int("total", len(drawings)))
	return url, nil
}

// DecodeDrawing returns the PNG bytes held in a data URL.
func DecodeDrawing(url string) ([]byte, error) {
	data, ok := strings.CutPrefix(url, pngDataPrefix)
	if !ok {
		return nil, ErrNotPNG
	}
	png, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode drawing: %w", err)
	}
	return png, nil
}
