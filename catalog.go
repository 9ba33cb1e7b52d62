package ytfs

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bodgit/ytfs/header"
	_ "github.com/mattn/go-sqlite3"
)

// Entry describes an encoded video.
type Entry struct {
	// Path is the absolute path of the video as written by Encode
	Path string
	// Name is the base name of Path
	Name string
	// Remote is the identifier of the video once uploaded, if known
	Remote  string
	SHA1    string
	Width   int
	Height  int
	Header  header.Header
	Created time.Time
}

// Catalog is a database of encoded videos.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens or creates the catalogue stored in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS video (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, name TEXT NOT NULL, remote TEXT UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, header BLOB NOT NULL, created DATETIME NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the catalogue.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records e, replacing any existing entry with the same path.
func (c *Catalog) Add(e Entry) error {
	b, err := e.Header.MarshalBinary()
	if err != nil {
		return err
	}

	if e.Created.IsZero() {
		e.Created = time.Now()
	}

	var remote sql.NullString
	if e.Remote != "" {
		remote.String = e.Remote
		remote.Valid = true
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO video (path, name, remote, sha1, width, height, header, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", e.Path, e.Name, remote, e.SHA1, e.Width, e.Height, b, e.Created.UTC()); err != nil {
		return err
	}

	return nil
}

// Link associates the remote identifier with the video at path.
func (c *Catalog) Link(path, remote string) error {
	result, err := c.db.Exec("UPDATE video SET remote = ? WHERE path = ?", remote, path)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("catalog: no video at \"%s\"", path)
	}

	return nil
}

type scanner interface {
	Scan(...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var remote sql.NullString
	var b []byte
	if err := s.Scan(&e.Path, &e.Name, &remote, &e.SHA1, &e.Width, &e.Height, &b, &e.Created); err != nil {
		return nil, err
	}
	e.Remote = remote.String

	if err := e.Header.UnmarshalBinary(b); err != nil {
		return nil, err
	}

	return &e, nil
}

const selectEntry = "SELECT path, name, remote, sha1, width, height, header, created FROM video"

// Find returns the entry whose path or remote identifier matches key, or
// nil if there is no such entry.
func (c *Catalog) Find(key string) (*Entry, error) {
	e, err := scanEntry(c.db.QueryRow(selectEntry+" WHERE path = ? OR remote = ? ORDER BY path = ? DESC LIMIT 1", key, key, key))
	switch err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return e, nil
	default:
		return nil, err
	}
}

// List returns every entry ordered by name then path.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query(selectEntry + " ORDER BY name, path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}
