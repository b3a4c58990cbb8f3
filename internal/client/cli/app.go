package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/client"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/session"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/store"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/users"

	serverconfig "github.com/dmitrijs2005/sessionkeeper/internal/server/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// recordsBackend is a records repository the App owns and closes.
type recordsBackend interface {
	records.Repository
	io.Closer
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend client.Client
	manager *session.Manager
	records io.Closer
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	repo, err := openRecords(ctx, c)
	if err != nil {
		logger.Error(ctx, "error opening session store", "driver", c.StoreDriver, "error", err)
		return nil, err
	}

	var storeOpts []store.Option
	if c.StorePassphrase != "" {
		sealer, err := store.PassphraseSealer(ctx, repo, c.StorePassphrase)
		if err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("init record sealing: %w", err)
		}
		storeOpts = append(storeOpts, store.WithSealer(sealer))
	}

	backend, err := newBackend(ctx, c)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	opts := []session.Option{session.WithLogger(logger)}
	if c.GuardStaleResults {
		opts = append(opts, session.WithStaleResultGuard())
	}
	m := session.NewManager(backend, store.New(repo, storeOpts...), opts...)

	a := newApp(c, logger, backend, m)
	a.records = repo
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, backend client.Client, m *session.Manager) *App {
	return &App{
		config:  c,
		logger:  logger,
		backend: backend,
		manager: m,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

func openRecords(ctx context.Context, c *config.Config) (recordsBackend, error) {
	switch c.StoreDriver {
	case config.StoreSQLite:
		return records.OpenSQLite(ctx, c.StoreDSN)
	case config.StoreRedis:
		return records.OpenRedis(ctx, c.RedisURL, "sessionkeeper:")
	case config.StoreMemory:
		return records.NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
}

// newBackend connects to the identity server, or for the local backend
// starts the reference directory in process with the demo accounts.
func newBackend(ctx context.Context, c *config.Config) (client.Client, error) {
	switch c.Backend {
	case config.BackendGRPC:
		return client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	case config.BackendLocal:
		sc := &serverconfig.Config{}
		sc.LoadDefaults()
		dir := users.NewService(users.NewMemoryRepository(), sc)
		if err := dir.SeedDemoUsers(ctx); err != nil {
			return nil, fmt.Errorf("seed error: %w", err)
		}
		return client.NewLocalClient(dir), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(ctx, fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run restores the persisted session, starts the observer and the
// watchers, and blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	fmt.Fprintln(a.out, "Welcome to sessionkeeper (type 'help' for commands)")

	states, unsubscribe := a.manager.Subscribe()
	observed := make(chan struct{})
	go func() {
		defer close(observed)
		a.observe(states)
	}()

	var watchers sync.WaitGroup
	// background work stops before the connections it uses are closed
	defer func() {
		cancel()
		watchers.Wait()
		unsubscribe()
		<-observed
		if err := a.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing app", "error", err)
		}
	}()

	a.manager.Restore(ctx)

	if a.config.ExpiryCheckInterval > 0 {
		watchers.Add(1)
		go func() {
			defer watchers.Done()
			a.manager.WatchExpiry(ctx, a.config.ExpiryCheckInterval)
		}()
	}
	if a.config.OnlineCheckInterval > 0 {
		watchers.Add(1)
		go func() {
			defer watchers.Done()
			a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
		}()
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the backend connection and the records backend.
func (a *App) Close() error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.records != nil {
		errs = append(errs, a.records.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.manager.IsAuthenticated()
}

// getStatus renders the prompt prefix: the signed-in user and the
// connectivity mode.
func (a *App) getStatus() string {
	s := ""
	if u := a.manager.CurrentUser(); u != nil {
		s = u.Email + " "
	}
	if mode := a.getMode(); mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the backend every interval and switches
// the mode as reachability changes.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.backend.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// withTimeout bounds a single intent by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
