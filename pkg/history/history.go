// Package history keeps the CLI's recent lookups per tool on local disk.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// MaxEntries is how many lookups a tool remembers.
const MaxEntries = 10

// Tool keys.
const (
	ToolWhois = "whois"
	ToolIP    = "ip"
	ToolScan  = "scan"
)

var validKey = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Entry is one remembered lookup.
type Entry struct {
	Query  string          `json:"query"`
	At     time.Time       `json:"at"`
	Result json.RawMessage `json:"result,omitempty"`
}

// List is the bounded, newest-first history of one tool. Every change is
// written through to a JSON file.
type List struct {
	path    string
	entries []Entry
	now     func() time.Time
}

// DefaultDir is where histories live when no directory is given.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "breachsignal", "history"), nil
}

// Open loads the history of key from dir. A missing file is an empty list.
func Open(dir, key string) (*List, error) {
	if !validKey.MatchString(key) {
		return nil, fmt.Errorf("invalid history key %q", key)
	}
	l := &List{path: filepath.Join(dir, key+".json"), now: time.Now}

	raw, err := os.ReadFile(l.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return l, nil
	case err != nil:
		return nil, fmt.Errorf("read history: %w", err)
	}
	if err := json.Unmarshal(raw, &l.entries); err != nil {
		// A corrupt file is treated as empty and replaced on the next Add.
		l.entries = nil
	}
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return l, nil
}

// Entries returns the remembered lookups, newest first.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Add records a lookup at the front, drops the oldest beyond MaxEntries and
// persists the list.
func (l *List) Add(query string, result json.RawMessage) error {
	e := Entry{Query: query, At: l.now().UTC(), Result: result}
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return l.save()
}

// Clear forgets every entry and removes the file.
func (l *List) Clear() error {
	l.entries = nil
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

func (l *List) save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	raw, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return os.Rename(tmp, l.path)
}
