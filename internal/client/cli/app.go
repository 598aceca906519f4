package cli

import (
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/akarpovs/bannerdesk/internal/client/config"
	"github.com/akarpovs/bannerdesk/internal/client/gateway"
	"github.com/akarpovs/bannerdesk/internal/client/models"
	"github.com/akarpovs/bannerdesk/internal/client/services"
	"github.com/akarpovs/bannerdesk/internal/client/session"
	"github.com/akarpovs/bannerdesk/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the session store, notifier, gateway and auth service into the
// interactive console. Several App processes may run against the same session
// database; each watches it for changes made by the others.
type App struct {
	config   *config.Config
	auth     services.AuthService
	store    *session.SQLiteStore
	notifier *session.Notifier
	log      logging.Logger
	reader   *bufio.Reader

	mu      sync.Mutex
	current *models.Profile
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	store, err := session.Open(ctx, c.SessionDBPath, log)
	if err != nil {
		log.Error(ctx, "error opening session database", "path", c.SessionDBPath, "error", err)
		return nil, err
	}

	notifier := session.NewNotifier(store, log)
	gw := gateway.NewHTTPGateway(c.ServerBaseURL, store, log)
	auth := services.NewAuthService(gw, store, notifier, log)

	return &App{
		config:   c,
		auth:     auth,
		store:    store,
		notifier: notifier,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run attaches the app to the session, starts the cross-process watcher and
// enters the REPL. It returns when the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	detach := session.Attach(ctx, a.store, a.notifier, a)
	defer detach()

	go a.notifier.Watch(ctx, a.config.WatchInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// MountSession and SessionChanged make App a session view: the prompt always
// reflects the latest known identity, whichever process changed it.
func (a *App) MountSession(p *models.Profile) {
	a.mu.Lock()
	a.current = p
	a.mu.Unlock()
}

func (a *App) SessionChanged(p *models.Profile) {
	a.mu.Lock()
	prev := a.current
	a.current = p
	a.mu.Unlock()

	switch {
	case prev == nil && p != nil:
		a.log.Info(context.Background(), "session started", "user", p.DisplayName())
	case prev != nil && p == nil:
		a.log.Info(context.Background(), "session ended")
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.AccessToken(context.Background()) != ""
}

// getStatus renders the prompt suffix from the current identity. A nil
// profile renders as anonymous, never as an error.
func (a *App) getStatus() string {
	a.mu.Lock()
	p := a.current
	a.mu.Unlock()

	if p == nil {
		return ""
	}
	return "(" + p.DisplayName() + ")"
}
