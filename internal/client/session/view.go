package session

import (
	"context"

	"github.com/akarpovs/bannerdesk/internal/client/models"
)

// View is the contract for any UI surface that displays identity (navigation
// panel, profile screen, route guard). Implementations must treat a nil
// profile as a fully valid, renderable state — fallback display values, not
// an error.
type View interface {
	// MountSession seeds the view with the current identity when it becomes
	// visible.
	MountSession(p *models.Profile)

	// SessionChanged is invoked on every identity change for as long as the
	// view stays attached.
	SessionChanged(p *models.Profile)
}

// Attach wires a view to the session: it seeds the view from the store and
// subscribes it to the notifier. The returned detach function unsubscribes;
// calling it more than once is a no-op.
func Attach(ctx context.Context, store Store, n *Notifier, v View) (detach func()) {
	v.MountSession(store.User(ctx))
	return n.Subscribe(v.SessionChanged)
}
