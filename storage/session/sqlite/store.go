package sqlitestore

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/shuleni/registra/core"
	"github.com/shuleni/registra/core/session"
	"github.com/shuleni/registra/core/student"
)

const schema = `
CREATE TABLE IF NOT EXISTS session (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	principal TEXT NOT NULL
);`

// Store persists the principal as a single serialized row in an embedded
// sqlite file so the session survives application restarts.
type Store struct {
	db *sqlx.DB
}

var _ session.Store = (*Store)(nil)

func Open(conf *core.Config) (*Store, error) {
	db, err := sqlx.Connect("sqlite", conf.Session.Path)
	if err != nil {
		return nil, errors.Wrap(err, "opening session database")
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating session table")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SavePrincipal(p student.Principal) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "serializing principal")
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO session (id, principal) VALUES (1, ?)`, string(blob))
	return errors.Wrap(err, "saving principal")
}

func (s *Store) GetPrincipal() (student.Principal, error) {
	var blob string
	if err := s.db.Get(&blob, `SELECT principal FROM session WHERE id = 1`); err != nil {
		if err == sql.ErrNoRows {
			return student.Principal{}, session.ErrNoSession
		}
		return student.Principal{}, errors.Wrap(err, "loading principal")
	}
	var p student.Principal
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return student.Principal{}, errors.Wrap(err, "deserializing principal")
	}
	return p, nil
}

func (s *Store) ClearPrincipal() error {
	_, err := s.db.Exec(`DELETE FROM session`)
	return errors.Wrap(err, "clearing principal")
}
