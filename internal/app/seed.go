package app

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/storekit/storeadmin/internal/session"
	"github.com/storekit/storeadmin/pkg/common"
)

// checkSuper ensures the default super admin operator exists so a fresh
// install in local auth mode is reachable.
func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "storeadmin"

	if a.appConfig.Session.Mode == "remote" {
		return
	}

	_, err := a.tokens.GetOperator(superUsername)
	switch {
	case errors.Is(err, session.ErrOperatorNotFound):
		hash, herr := session.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		op := &session.Operator{
			ID:        common.UUIDint64(),
			Username:  superUsername,
			Realname:  "Administrator",
			Email:     "N/A",
			Password:  hash,
			Level:     "super",
			CreatedAt: time.Now(),
		}
		if serr := a.tokens.SaveOperator(op); serr != nil {
			zap.L().Error("failed to create default super admin", zap.Error(serr))
			return
		}
		zap.L().Warn("initialized default super admin account, change the password",
			zap.String("username", superUsername))
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
	}
}
