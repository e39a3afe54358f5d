package app

import (
	"github.com/robfig/cron/v3"

	"github.com/storekit/storeadmin/config"
	"github.com/storekit/storeadmin/internal/catalog"
	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/session"
	"github.com/storekit/storeadmin/internal/store"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the in-memory entity collections
type StoreProvider interface {
	Orders() *store.Collection[domain.Order]
	Users() *store.Collection[domain.User]
	Vouchers() *store.Collection[domain.Voucher]
}

// SessionProvider provides the session guard and its token store
type SessionProvider interface {
	Guard() *session.Guard
	Tokens() *session.TokenStore
}

// CatalogProvider provides the remote-backed product service
type CatalogProvider interface {
	Catalog() *catalog.Service
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	StoreProvider
	SessionProvider
	CatalogProvider
	SchedulerProvider

	Monitor() *SystemMonitor
	Release()
}
