package buku

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	selectColumns = `SELECT id, URL, metadata, tags, "desc", flags FROM bookmarks`
	insertQuery   = `INSERT INTO bookmarks (URL, metadata, tags, "desc", flags) VALUES (?, ?, ?, ?, ?)`
	updateQuery   = `UPDATE bookmarks SET URL = ?, metadata = ?, tags = ?, "desc" = ?, flags = ? WHERE id = ?`
	deleteQuery   = `DELETE FROM bookmarks WHERE id = ?`
)

// SQLiteDatabase reads and writes the bookmarks table of a Buku database.
type SQLiteDatabase struct {
	db *sql.DB
}

// OpenSQLite opens an existing Buku database read-write. The file is never
// created, and the bookmarks table must be readable.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDatabase, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("buku: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("buku: ping %s: %w", path, err)
	}
	var probe int
	err = db.QueryRowContext(ctx, `SELECT count(*) FROM bookmarks`).Scan(&probe)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("buku: probe bookmarks table: %w", err)
	}
	return &SQLiteDatabase{db: db}, nil
}

// sqliteDSN builds a file: URI so the driver honours mode=rw. Paths holding
// '?' are refused: the driver splits the DSN on the first '?' before SQLite
// decodes the URI, so such a path cannot be addressed.
func sqliteDSN(path string) (string, error) {
	if strings.ContainsRune(path, '?') {
		return "", fmt.Errorf("buku: %q: '?' is not supported in database paths", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("buku: resolve %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{
		Scheme:   "file",
		Path:     p,
		RawQuery: "mode=rw&_pragma=busy_timeout(5000)",
	}
	return u.String(), nil
}

func (s *SQLiteDatabase) GetAll(ctx context.Context) ([]SavedBookmark, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("buku: query bookmarks: %w", err)
	}
	return scanBookmarks(rows)
}

func (s *SQLiteDatabase) GetByIDs(ctx context.Context, ids []ID) ([]SavedBookmark, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []SavedBookmark{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := selectColumns + ` WHERE id IN (` + placeholders + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("buku: query bookmarks by id: %w", err)
	}
	return scanBookmarks(rows)
}

func (s *SQLiteDatabase) AddMany(ctx context.Context, records []Bookmark) ([]ID, error) {
	ids := make([]ID, 0, len(records))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i, bm := range records {
			res, err := tx.ExecContext(ctx, insertQuery, bm.URL, bm.Metadata, bm.Tags, bm.Desc, bm.Flags)
			if err != nil {
				return fmt.Errorf("buku: insert record %d: %w", i, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("buku: insert record %d id: %w", i, err)
			}
			ids = append(ids, ID(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SQLiteDatabase) UpdateMany(ctx context.Context, records []SavedBookmark) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, bm := range records {
			res, err := tx.ExecContext(ctx, updateQuery, bm.URL, bm.Metadata, bm.Tags, bm.Desc, bm.Flags, bm.ID)
			if err != nil {
				return fmt.Errorf("buku: update id=%d: %w", bm.ID, err)
			}
			if err := requireAffected(res, bm.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteDatabase) DeleteMany(ctx context.Context, ids []ID) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range uniqueIDs(ids) {
			res, err := tx.ExecContext(ctx, deleteQuery, id)
			if err != nil {
				return fmt.Errorf("buku: delete id=%d: %w", id, err)
			}
			if err := requireAffected(res, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

func (s *SQLiteDatabase) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("buku: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("buku: commit: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, id ID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("buku: rows affected id=%d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}
	return nil
}

// Nullable columns fall back to empty strings and zero flags.
func scanBookmarks(rows *sql.Rows) ([]SavedBookmark, error) {
	defer rows.Close()
	out := make([]SavedBookmark, 0)
	for rows.Next() {
		var (
			id                    int64
			url, meta, tags, desc sql.NullString
			flags                 sql.NullInt64
		)
		if err := rows.Scan(&id, &url, &meta, &tags, &desc, &flags); err != nil {
			return nil, fmt.Errorf("buku: scan bookmark: %w", err)
		}
		out = append(out, SavedBookmark{
			ID: ID(id),
			Bookmark: Bookmark{
				URL:      url.String,
				Metadata: meta.String,
				Tags:     tags.String,
				Desc:     desc.String,
				Flags:    int32(flags.Int64),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("buku: iterate bookmarks: %w", err)
	}
	return out, nil
}
