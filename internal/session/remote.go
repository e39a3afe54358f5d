package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/internal/productapi"
)

// RemoteAuth delegates to the demo API's auth endpoints. The remote token
// pair is what gets persisted; the dashboard reuses it on catalog calls.
type RemoteAuth struct {
	client *productapi.Client
}

func NewRemoteAuth(client *productapi.Client) *RemoteAuth {
	return &RemoteAuth{client: client}
}

func (a *RemoteAuth) Login(ctx context.Context, username, password string) (*Credentials, error) {
	res, err := a.client.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, productapi.ErrUnauthorized) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	return &Credentials{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         remoteAccount(&res.AuthUser),
	}, nil
}

func (a *RemoteAuth) Me(ctx context.Context, accessToken string) (*Account, error) {
	u, err := a.client.Me(ctx, accessToken)
	if err != nil {
		if errors.Is(err, productapi.ErrUnauthorized) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	acct := remoteAccount(u)
	return &acct, nil
}

func remoteAccount(u *productapi.AuthUser) Account {
	return Account{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
