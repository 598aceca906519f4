package session

import (
	"context"
	"sync"
	"time"

	"github.com/akarpovs/bannerdesk/internal/client/models"
	"github.com/akarpovs/bannerdesk/internal/logging"
)

// Handler receives the best-known current profile whenever the identity
// changes. A nil profile means "logged out".
type Handler func(p *models.Profile)

// Notifier broadcasts identity changes to subscribers. Two delivery channels
// funnel into the same subscriber list:
//
//   - Notify, called by the auth operations after a local change, delivers
//     synchronously within the current process;
//   - Watch, a polling loop over the store revision, picks up changes made
//     by other console processes sharing the session database and re-reads
//     the store for the payload.
//
// Delivery is at-least-once: a local change is delivered by Notify and may
// be delivered again when the watcher observes the bumped revision. No
// ordering is guaranteed relative to in-flight network calls.
type Notifier struct {
	store Store
	log   logging.Logger

	mu      sync.Mutex
	subs    map[int]Handler
	nextID  int
	lastRev int64
}

func NewNotifier(store Store, log logging.Logger) *Notifier {
	return &Notifier{store: store, log: log, subs: make(map[int]Handler)}
}

// Subscribe registers h for every future identity change and returns its
// unsubscribe function. Unsubscribing is idempotent: calling it twice, or
// after the owning view is long gone, is a no-op.
func (n *Notifier) Subscribe(h Handler) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = h
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Notify dispatches p to every current subscriber, synchronously, in the
// caller's goroutine. rev is the revision the announced write produced (as
// returned by the store mutator); recording exactly that value keeps the
// watcher from re-delivering the local change while still delivering an
// external write that raced in right after it. Pass 0 when announcing
// without a store write.
func (n *Notifier) Notify(ctx context.Context, rev int64, p *models.Profile) {
	n.mu.Lock()
	if rev > n.lastRev {
		n.lastRev = rev
	}
	handlers := make([]Handler, 0, len(n.subs))
	for _, h := range n.subs {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h(p)
	}
}

// Watch polls the store revision every interval and, when another process
// has mutated the shared session, re-reads the profile and dispatches it.
// It blocks until ctx is done; run it in its own goroutine.
func (n *Notifier) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	n.mu.Lock()
	n.lastRev = n.store.Revision(ctx)
	n.mu.Unlock()

	for {
		select {
		case <-ticker.C:
			n.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// poll performs one revision check. Exposed on the struct (not the loop) so
// tests can step the watcher without timing games.
func (n *Notifier) poll(ctx context.Context) {
	rev := n.store.Revision(ctx)

	n.mu.Lock()
	if rev == n.lastRev {
		n.mu.Unlock()
		return
	}
	n.lastRev = rev
	n.mu.Unlock()

	// The cross-process signal carries no payload; fall back to the store.
	p := n.store.User(ctx)
	n.log.Debug(ctx, "external session change observed", "revision", rev)

	n.mu.Lock()
	handlers := make([]Handler, 0, len(n.subs))
	for _, h := range n.subs {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h(p)
	}
}
