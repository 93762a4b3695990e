package server

import (
	"errors"

	"github.com/danmuck/bukubrow/internal/buku"
)

var errNoDatabase = errors.New("server: no database")

// Backend is either a ready database or the reason none is available. It is
// built once at startup and held for the life of the process.
type Backend struct {
	db    buku.Database
	cause error
}

func Ready(db buku.Database) Backend {
	if db == nil {
		return Unavailable(errNoDatabase)
	}
	return Backend{db: db}
}

func Unavailable(cause error) Backend {
	if cause == nil {
		cause = errNoDatabase
	}
	return Backend{cause: cause}
}

// FromInit builds a Backend from the result of buku.Init.
func FromInit(db buku.Database, err error) Backend {
	if err != nil {
		return Unavailable(err)
	}
	return Ready(db)
}

func (b Backend) Database() (buku.Database, error) {
	if b.cause != nil {
		return nil, b.cause
	}
	return b.db, nil
}

// Close releases the database, if any.
func (b Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
