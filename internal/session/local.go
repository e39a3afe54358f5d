package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// LocalAuth authenticates operators from the embedded store and issues its
// own HS256 token pair, so the dashboard works without the remote demo API.
type LocalAuth struct {
	store  *TokenStore
	secret []byte
	ttl    time.Duration
}

func NewLocalAuth(store *TokenStore, secret string, ttl time.Duration) *LocalAuth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LocalAuth{store: store, secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	Username string `json:"username"`
	UID      int64  `json:"uid"`
	Use      string `json:"use"` // access or refresh
	jwt.RegisteredClaims
}

func (a *LocalAuth) Login(ctx context.Context, username, password string) (*Credentials, error) {
	op, err := a.store.GetOperator(username)
	if err != nil {
		// same answer for unknown user and wrong password
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	access, err := a.issue(op, "access", a.ttl)
	if err != nil {
		return nil, errors.Wrap(err, "issue access token")
	}
	refresh, err := a.issue(op, "refresh", a.ttl*7)
	if err != nil {
		return nil, errors.Wrap(err, "issue refresh token")
	}

	op.LastLogin = time.Now()
	_ = a.store.SaveOperator(op)

	return &Credentials{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         accountOf(op),
	}, nil
}

func (a *LocalAuth) Me(ctx context.Context, accessToken string) (*Account, error) {
	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid || claims.Use != "access" {
		return nil, ErrBadCredentials
	}
	op, err := a.store.GetOperator(claims.Username)
	if err != nil {
		return nil, ErrBadCredentials
	}
	acct := accountOf(op)
	return &acct, nil
}

func (a *LocalAuth) issue(op *Operator, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username: op.Username,
		UID:      op.ID,
		Use:      use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// IssueGateToken signs the dashboard's own bearer token for an account.
// Used when the auth collaborator's tokens are signed by someone else and
// cannot gate /api themselves.
func IssueGateToken(secret string, acct *Account, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := sessionClaims{
		Username: acct.Username,
		UID:      acct.ID,
		Use:      "gate",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// HashPassword prepares an operator password for storage.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hash), err
}

func accountOf(op *Operator) Account {
	return Account{
		ID:        op.ID,
		Username:  op.Username,
		Email:     op.Email,
		FirstName: op.Realname,
	}
}
