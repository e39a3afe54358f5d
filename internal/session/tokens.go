// Package session owns authentication state: the persistent token pair,
// the operator accounts and the guard deciding whether protected content
// may be served.
package session

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketTokens    = []byte("tokens")
	bucketOperators = []byte("operators")

	keyAccessToken  = []byte("accessToken")
	keyRefreshToken = []byte("refreshToken")
)

var ErrOperatorNotFound = errors.New("operator not found")

// Operator is a locally managed dashboard account.
type Operator struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Realname  string    `json:"realname"`
	Email     string    `json:"email"`
	Password  string    `json:"password"` // bcrypt hash
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// TokenStore is the embedded database replacing the browser's localStorage:
// it holds the accessToken/refreshToken pair and the operator accounts.
type TokenStore struct {
	db *bolt.DB
}

func OpenTokenStore(path string) (*TokenStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open token store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketTokens); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketOperators)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init token store")
	}
	return &TokenStore{db: db}, nil
}

func (s *TokenStore) Close() error { return s.db.Close() }

// SaveTokens persists the pair; both are written by login only.
func (s *TokenStore) SaveTokens(access, refresh string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTokens)
		if err := b.Put(keyAccessToken, []byte(access)); err != nil {
			return err
		}
		return b.Put(keyRefreshToken, []byte(refresh))
	})
}

// Tokens returns the stored pair; empty strings when never written.
func (s *TokenStore) Tokens() (access, refresh string, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTokens)
		access = string(b.Get(keyAccessToken))
		refresh = string(b.Get(keyRefreshToken))
		return nil
	})
	return access, refresh, err
}

func (s *TokenStore) ClearTokens() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTokens)
		if err := b.Delete(keyAccessToken); err != nil {
			return err
		}
		return b.Delete(keyRefreshToken)
	})
}

func (s *TokenStore) SaveOperator(op *Operator) error {
	data, err := json.Marshal(op)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOperators).Put([]byte(op.Username), data)
	})
}

func (s *TokenStore) GetOperator(username string) (*Operator, error) {
	var op Operator
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketOperators).Get([]byte(username))
		if data == nil {
			return errors.Wrap(ErrOperatorNotFound, username)
		}
		return json.Unmarshal(data, &op)
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}
