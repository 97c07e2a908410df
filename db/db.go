// Package db keeps the journal of menu runs in sqlite.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/dasdy/pixmenu/model"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

func InitDBStorage(conn *sql.DB) error {
	statements := []string{
		`create table if not exists events(
			item int not null,
			label text not null default '',
			kind text not null,
			ok bool not null default true,
			error text not null default '',
			ts datetime not null)`,
		`create index if not exists events_tsix on events (ts ASC)`,
		`create index if not exists events_itemix on events (item)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			slog.Error("Could not init storage", "statement", stmt, "error", err)

			return fmt.Errorf("could not init storage: %w", err)
		}
	}

	return nil
}

// NewStorageFromConnection wraps an open connection. Unless readOnly is set the
// schema is created first.
func NewStorageFromConnection(conn *sql.DB, readOnly bool) (*SQLiteStorage, error) {
	// sqlite serialises writers anyway, and ":memory:" databases are per connection.
	conn.SetMaxOpenConns(1)

	if !readOnly {
		if err := InitDBStorage(conn); err != nil {
			return nil, err
		}
	}

	return &SQLiteStorage{db: conn, now: time.Now}, nil
}

func NewStorageFromPath(path string, readOnly bool) (*SQLiteStorage, error) {
	dsn := path
	if readOnly && path != ":memory:" {
		dsn = "file:" + path + "?mode=ro"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open journal %s: %w", path, err)
	}

	storage, err := NewStorageFromConnection(conn, readOnly)
	if err != nil {
		conn.Close()

		return nil, err
	}

	slog.Debug("Opened journal", "path", path, "readOnly", readOnly)

	return storage, nil
}

// ConnectDB opens a writable journal.
func ConnectDB(path string) (Storage, error) {
	return NewStorageFromPath(path, false)
}

// Record stores event with the current time. It makes the storage usable as a
// menu recorder.
func (s *SQLiteStorage) Record(_ context.Context, event model.MenuEvent) error {
	return s.Store(model.MenuEventWithTimestamp{MenuEvent: event, Timestamp: s.now().UTC()})
}

func (s *SQLiteStorage) Store(event model.MenuEventWithTimestamp) error {
	_, err := s.db.Exec(`insert into events(item, label, kind, ok, error, ts)
	    values(?, ?, ?, ?, ?, ?)`,
		event.Index, event.Label, string(event.Kind), event.Error == "", event.Error, event.Timestamp)
	if err != nil {
		return fmt.Errorf("could not store %s event: %w", event.Kind, err)
	}

	return nil
}

// GatherAll aggregates the journal per menu item, ordered by item index.
func (s *SQLiteStorage) GatherAll() ([]model.ItemUsage, error) {
	rows, err := s.db.Query(
		`select item,
            coalesce(max(label), ''),
            sum(case when kind in ('start', 'navigate') then 1 else 0 end),
            sum(case when kind = 'select' then 1 else 0 end),
            sum(case when kind = 'failed' then 1 else 0 end)
        from events
        where kind != 'exit'
        group by item
        order by item`)
	if err != nil {
		return nil, fmt.Errorf("could not query usage: %w", err)
	}

	defer rows.Close()

	result := make([]model.ItemUsage, 0)

	for rows.Next() {
		var u model.ItemUsage

		if err := rows.Scan(&u.Index, &u.Label, &u.Visits, &u.Selected, &u.Failed); err != nil {
			return nil, fmt.Errorf("could not read usage row: %w", err)
		}

		result = append(result, u)
	}

	return result, rows.Err()
}

// AllIterator streams the journal in time order. The connection stays busy
// until the iteration ends.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.MenuEventWithTimestamp], error) {
	rows, err := s.db.Query(`select item, label, kind, error, ts from events order by ts, rowid`)
	if err != nil {
		return nil, fmt.Errorf("could not query events: %w", err)
	}

	return func(yield func(model.MenuEventWithTimestamp) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				event model.MenuEventWithTimestamp
				kind  string
			)

			if err := rows.Scan(&event.Index, &event.Label, &kind, &event.Error, &event.Timestamp); err != nil {
				slog.Error("Could not read event row", "error", err)

				return
			}

			event.Kind = model.EventKind(kind)

			if !yield(event) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			slog.Error("Event iteration stopped", "error", err)
		}
	}, nil
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.Error("Could not close journal", "error", err)
	}
}

// Merge copies every event of inputs into output.
func Merge(inputs []*SQLiteStorage, output *SQLiteStorage) error {
	for i, input := range inputs {
		events, err := input.AllIterator()
		if err != nil {
			return err
		}

		// Collected first: with a single connection per storage, writing while
		// the same storage is being read would block.
		batch := make([]model.MenuEventWithTimestamp, 0)
		for e := range events {
			batch = append(batch, e)
		}

		for _, e := range batch {
			if err := output.Store(e); err != nil {
				return fmt.Errorf("could not merge input %d: %w", i, err)
			}
		}

		slog.Info("Merged journal", "input", i, "events", len(batch))
	}

	return nil
}
