package app

import (
	"context"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/storekit/storeadmin/config"
	"github.com/storekit/storeadmin/internal/catalog"
	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/productapi"
	"github.com/storekit/storeadmin/internal/session"
	"github.com/storekit/storeadmin/internal/store"
)

type Application struct {
	appConfig *config.AppConfig
	bus       EventBus.Bus
	sched     *cron.Cron

	orders   *store.Collection[domain.Order]
	users    *store.Collection[domain.User]
	vouchers *store.Collection[domain.Voucher]

	tokens  *session.TokenStore
	guard   *session.Guard
	remote  *productapi.Client
	catalog *catalog.Service

	monitor *SystemMonitor
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider  = (*Application)(nil)
	_ StoreProvider   = (*Application)(nil)
	_ SessionProvider = (*Application)(nil)
	_ CatalogProvider = (*Application)(nil)
	_ AppContext      = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }

func (a *Application) Orders() *store.Collection[domain.Order]     { return a.orders }
func (a *Application) Users() *store.Collection[domain.User]       { return a.users }
func (a *Application) Vouchers() *store.Collection[domain.Voucher] { return a.vouchers }

func (a *Application) Guard() *session.Guard       { return a.guard }
func (a *Application) Tokens() *session.TokenStore { return a.tokens }
func (a *Application) Catalog() *catalog.Service   { return a.catalog }
func (a *Application) Monitor() *SystemMonitor     { return a.monitor }

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron { return a.sched }

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)
	cfg.InitDirs()

	// Persistent client storage: token pair plus local operator accounts
	a.tokens, err = session.OpenTokenStore(cfg.TokenDBPath())
	if err != nil {
		zap.S().Fatalf("token store init failed: %v", err)
	}

	a.bus = EventBus.New()
	a.initStores()
	a.loadFixtures()
	a.checkSuper()

	a.remote = productapi.NewClient(cfg.Remote)
	a.catalog = catalog.NewService(a.remote)

	var auth session.AuthClient
	if cfg.Session.Mode == "remote" {
		auth = session.NewRemoteAuth(a.remote)
	} else {
		auth = session.NewLocalAuth(a.tokens, cfg.Web.Secret, cfg.Session.AccessTTL)
	}
	a.guard = session.NewGuard(auth, a.tokens)

	// resolve a previously stored token in the background; route gating
	// defers until this finishes
	go a.guard.Restore(context.Background())

	// audit trail for every list mutation
	_ = a.bus.Subscribe(store.TopicChanged, func(name, op string, id int64) {
		zap.L().Info("collection changed",
			zap.String("collection", name),
			zap.String("op", op),
			zap.Int64("id", id))
	})

	a.monitor = NewSystemMonitor()
	a.initJob()
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

func (a *Application) initStores() {
	a.orders = store.NewCollection(store.Config[domain.Order]{
		Name:  "orders",
		IDOf:  func(o domain.Order) int64 { return o.ID },
		SetID: func(o *domain.Order, id int64) { o.ID = id },
		Bus:   a.bus,
	})
	a.users = store.NewCollection(store.Config[domain.User]{
		Name:  "users",
		IDOf:  func(u domain.User) int64 { return u.ID },
		SetID: func(u *domain.User, id int64) { u.ID = id },
		Bus:   a.bus,
	})
	a.vouchers = store.NewCollection(store.Config[domain.Voucher]{
		Name:   "vouchers",
		IDOf:   func(v domain.Voucher) int64 { return v.ID },
		SetID:  func(v *domain.Voucher, id int64) { v.ID = id },
		Derive: func(v *domain.Voucher, now time.Time) { v.DeriveStatus(now) },
		Bus:    a.bus,
	})
}

func (a *Application) loadFixtures() {
	dir := a.appConfig.Data.Dir
	if orders, err := store.LoadFixture[domain.Order](filepath.Join(dir, "orders.json")); err != nil {
		zap.S().Warnf("orders fixture: %v", err)
	} else {
		a.orders.Load(orders)
	}
	if users, err := store.LoadFixture[domain.User](filepath.Join(dir, "users.json")); err != nil {
		zap.S().Warnf("users fixture: %v", err)
	} else {
		a.users.Load(users)
	}
	if vouchers, err := store.LoadFixture[domain.Voucher](filepath.Join(dir, "vouchers.json")); err != nil {
		zap.S().Warnf("vouchers fixture: %v", err)
	} else {
		a.vouchers.Load(vouchers)
	}
	zap.S().Infof("fixtures loaded: %d orders, %d users, %d vouchers",
		a.orders.Len(), a.users.Len(), a.vouchers.Len())
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.tokens != nil {
		_ = a.tokens.Close()
	}
	_ = zap.L().Sync()
}
