// Package store persists machine-code blobs produced by an external
// compiler, keyed by the sha256 checksum of the bytes, so hosts can reload
// previously compiled code without keeping it mapped.
package store

import (
	"crypto/sha256"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/mcbridge/mcvm/types"
)

const dbName = "code"

// CodeStore is a content-addressed store for raw machine-code blobs. The
// blobs are opaque bytes here; nothing is validated or executed on this
// path.
type CodeStore struct {
	db dbm.DB
}

// New opens a persistent store under dir (GoLevelDB backend).
func New(dir string) (*CodeStore, error) {
	db, err := dbm.NewDB(dbName, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, err
	}
	return &CodeStore{db: db}, nil
}

// NewInMemory returns a store that keeps blobs in memory only.
func NewInMemory() *CodeStore {
	return &CodeStore{db: dbm.NewMemDB()}
}

// Save stores code and returns its checksum. Storing the same bytes twice
// is idempotent.
func (s *CodeStore) Save(code []byte) (types.Checksum, error) {
	sum := sha256.Sum256(code)
	if err := s.db.SetSync(sum[:], code); err != nil {
		return nil, err
	}
	return types.Checksum(sum[:]), nil
}

// Load returns the blob stored under checksum, or CodeNotFound.
func (s *CodeStore) Load(checksum types.Checksum) ([]byte, error) {
	code, err := s.db.Get(checksum)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, types.CodeNotFound{Checksum: checksum}
	}
	return code, nil
}

// Remove deletes the blob stored under checksum. Removing an unknown
// checksum reports CodeNotFound so callers can tell a typo from a no-op.
func (s *CodeStore) Remove(checksum types.Checksum) error {
	ok, err := s.db.Has(checksum)
	if err != nil {
		return err
	}
	if !ok {
		return types.CodeNotFound{Checksum: checksum}
	}
	return s.db.DeleteSync(checksum)
}

// Close releases the underlying database.
func (s *CodeStore) Close() error {
	return s.db.Close()
}
