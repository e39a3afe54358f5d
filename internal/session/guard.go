package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrBadCredentials is the auth taxonomy's AuthError: login rejected.
var ErrBadCredentials = errors.New("bad credentials")

// Account is the authenticated dashboard user, whichever collaborator
// vouched for it.
type Account struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Credentials is the collaborator's answer to a successful login.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         Account
}

// AuthClient is the auth collaborator behind the guard. Implementations:
// LocalAuth (embedded operators) and RemoteAuth (demo API).
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*Credentials, error)
	Me(ctx context.Context, accessToken string) (*Account, error)
}

// State of the session machine: Unknown until the stored token has been
// checked, then Authenticated or Anonymous.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

// Guard wraps the whole application: it resolves the persisted token on
// startup, performs login/logout and answers route-gating questions.
type Guard struct {
	auth   AuthClient
	tokens *TokenStore

	mu      sync.RWMutex
	current *Account
	loading bool
}

func NewGuard(auth AuthClient, tokens *TokenStore) *Guard {
	return &Guard{auth: auth, tokens: tokens, loading: true}
}

// Restore resolves the stored access token into a current user. A missing,
// expired or rejected token demotes the session to anonymous without error;
// only the loading flag is guaranteed to drop.
func (g *Guard) Restore(ctx context.Context) {
	defer func() {
		g.mu.Lock()
		g.loading = false
		g.mu.Unlock()
	}()

	access, _, err := g.tokens.Tokens()
	if err != nil || access == "" {
		return
	}
	user, err := g.auth.Me(ctx, access)
	if err != nil {
		zap.L().Info("stored session token rejected, clearing", zap.Error(err))
		_ = g.tokens.ClearTokens()
		return
	}
	g.mu.Lock()
	g.current = user
	g.mu.Unlock()
}

// Login exchanges credentials for a token pair, persists the pair and sets
// the current user. On failure nothing is written.
func (g *Guard) Login(ctx context.Context, username, password string) (*Account, error) {
	creds, err := g.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := g.tokens.SaveTokens(creds.AccessToken, creds.RefreshToken); err != nil {
		return nil, errors.Wrap(err, "persist tokens")
	}
	user := creds.User
	g.mu.Lock()
	g.current = &user
	g.loading = false
	g.mu.Unlock()
	zap.L().Info("operator login", zap.String("username", username))
	return &user, nil
}

// Logout clears tokens and the current user.
func (g *Guard) Logout() {
	_ = g.tokens.ClearTokens()
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
}

// CurrentUser returns the authenticated account, when there is one.
func (g *Guard) CurrentUser() (*Account, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil, false
	}
	u := *g.current
	return &u, true
}

func (g *Guard) IsLoading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// AccessToken returns the persisted access token for outbound remote calls.
func (g *Guard) AccessToken() string {
	access, _, _ := g.tokens.Tokens()
	return access
}

// State answers route gating. While the token check is still running the
// answer is Unknown and callers must render a neutral loading state, not
// a redirect.
func (g *Guard) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	switch {
	case g.loading:
		return StateUnknown
	case g.current != nil:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}
