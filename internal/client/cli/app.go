// Package cli is the interactive shell demonstrating the auth session
// subsystem: the two-step login flow, registration, route guarding, and
// sign-out.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/api"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/config"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/repositories/credentials"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/repositories/keyval"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/routing"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/session"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/storage"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/logging"

	_ "modernc.org/sqlite"
)

// Route names mirroring the navigable surface of the app. The partitions
// are static and fully enumerated; the guard never infers membership.
const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteHome     = "/home"
	RouteCart     = "/cart"
	RouteProfile  = "/profile"
	RouteSettings = "/settings"
)

func routeTable() map[string]routing.Partition {
	return map[string]routing.Partition{
		RouteLogin:    routing.PartitionAuth,
		RouteRegister: routing.PartitionAuth,
		RouteHome:     routing.PartitionApp,
		RouteCart:     routing.PartitionApp,
		RouteProfile:  routing.PartitionApp,
		RouteSettings: routing.PartitionApp,
	}
}

type App struct {
	config  *config.Config
	session *session.Store
	gateway api.Gateway
	guard   *routing.Guard
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires the client together: local encrypted storage, the HTTP auth
// gateway, the session store, and the route guard.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	key, err := storage.EncryptionKey(cfg.SecretPath)
	if err != nil {
		return nil, err
	}

	db, err := storage.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	repo := keyval.NewSQLiteRepository(db)

	deviceID, err := storage.DeviceID(ctx, repo)
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(os.Stdin)
	out := os.Stdout

	gw := api.NewHTTPGateway(cfg.APIBaseURL, cfg.RequestTimeout, deviceID, &terminalAuthorizer{reader: reader, out: out})
	creds := credentials.NewStore(repo, key)
	sess := session.NewStore(creds, gw, log)

	guard := routing.NewGuard(RouteLogin, RouteHome, routeTable())

	return &App{
		config:  cfg,
		session: sess,
		gateway: gw,
		guard:   guard,
		log:     log,
		reader:  reader,
		out:     out,
	}, nil
}

// Run reconciles the startup session state and enters the command loop.
func (a *App) Run(ctx context.Context) {
	defer a.gateway.Close()

	a.session.Reconcile(ctx)

	// Log committed transitions for the lifetime of the shell.
	ch, cancel := a.session.Subscribe()
	defer cancel()
	go func() {
		for snap := range ch {
			if !snap.Loading {
				a.log.Debug(ctx, "session state", "status", snap.Status.String())
			}
		}
	}()

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) status() string {
	snap := a.session.Snapshot()
	if snap.Authenticated() && snap.User != nil {
		return snap.User.Email
	}
	return snap.Status.String()
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}
