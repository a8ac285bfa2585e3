package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	path    string
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &Cache{path: dbPath, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	// The read-only handle needs the file to exist, so it is opened after the schema.
	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Get decodes the record stored under key into v. It reports false when the
// key has never been written.
func (c *Cache) Get(key string, v any) (bool, error) {
	var raw string
	err := c.readDB.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Put replaces the record stored under key.
func (c *Cache) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = c.writeDB.Exec(`
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(key string) error {
	_, err := c.writeDB.Exec("DELETE FROM records WHERE key = ?", key)
	return err
}

func (c *Cache) LoadEntry() (Entry, bool, error) {
	var e Entry
	ok, err := c.Get(KeyCachedFiles, &e)
	return e, ok, err
}

func (c *Cache) SaveEntry(e Entry) error {
	if e.Files == nil {
		e.Files = []FileRecord{}
	}
	return c.Put(KeyCachedFiles, e)
}

// LoadFrequency returns the stored table, or an empty one if none was saved.
func (c *Cache) LoadFrequency() (FrequencyTable, error) {
	t := FrequencyTable{}
	if _, err := c.Get(KeyFrequencyData, &t); err != nil {
		return FrequencyTable{}, err
	}
	if t == nil {
		t = FrequencyTable{}
	}
	return t, nil
}

func (c *Cache) SaveFrequency(t FrequencyTable) error {
	return c.Put(KeyFrequencyData, t)
}

func (c *Cache) Stats() (Stats, error) {
	s := Stats{Path: c.path}

	if fi, err := os.Stat(c.path); err == nil {
		s.Size = fi.Size()
	}

	entry, ok, err := c.LoadEntry()
	if err != nil {
		return s, err
	}
	if ok {
		s.HasEntry = true
		s.CachedFiles = len(entry.Files)
		s.CachedAt = time.UnixMilli(entry.Timestamp)
	}

	freq, err := c.LoadFrequency()
	if err != nil {
		return s, err
	}
	s.TrackedFiles = len(freq)
	for _, n := range freq {
		s.TotalClicks += n
	}

	var updated time.Time
	err = c.readDB.QueryRow("SELECT updated_at FROM records WHERE key = ?", KeyFrequencyData).Scan(&updated)
	if err == nil {
		s.FrequencySaved = updated
	} else if !errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("reading frequency timestamp: %w", err)
	}
	return s, nil
}
