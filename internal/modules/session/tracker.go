package session

import (
	"context"
	"log"
	"sync"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/samber/mo"
)

// ProfileLoader fetches the principal record for an auth identity.
type ProfileLoader interface {
	GetUserByID(ctx context.Context, id string) (*user.User, error)
}

// Tracker holds the resolution state of one session. Events are applied one
// at a time; trackers never share state.
type Tracker struct {
	loader ProfileLoader

	mu       sync.Mutex
	authID   mo.Option[string]
	profile  mo.Option[user.User]
	path     string
	decision Decision
}

// NewTracker starts an unauthenticated session positioned at initialPath.
func NewTracker(loader ProfileLoader, initialPath string) *Tracker {
	t := &Tracker{
		loader:  loader,
		authID:  mo.None[string](),
		profile: mo.None[user.User](),
		path:    initialPath,
	}
	t.decision = Resolve(t.authID, t.profile, t.path)
	return t
}

// OnAuthChange replaces the auth identity, reloads its profile and returns
// the new decision. A profile that cannot be loaded resolves to LoginOnly.
func (t *Tracker) OnAuthChange(ctx context.Context, authPrincipalID mo.Option[string]) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.authID = authPrincipalID
	t.profile = t.loadProfile(ctx, authPrincipalID)
	return t.resolve()
}

// Navigate records a new requested path and returns the decision for it.
func (t *Tracker) Navigate(p string) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.path = p
	return t.resolve()
}

// resolve recomputes the decision. After a redirect the session sits at the
// target, whichever event caused it. Callers hold mu.
func (t *Tracker) resolve() Decision {
	t.decision = Resolve(t.authID, t.profile, t.path)
	if t.decision.Redirect {
		t.path = t.decision.TargetPath
	}
	return t.decision
}

// Path returns the path the session is currently at.
func (t *Tracker) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Current returns the last decision.
func (t *Tracker) Current() Decision {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.decision
}

func (t *Tracker) loadProfile(ctx context.Context, authPrincipalID mo.Option[string]) mo.Option[user.User] {
	id, ok := authPrincipalID.Get()
	if !ok || t.loader == nil {
		return mo.None[user.User]()
	}
	u, err := t.loader.GetUserByID(ctx, id)
	if err != nil {
		if !apperr.IsNotFound(err) {
			log.Printf("session: load profile %s: %v", id, err)
		}
		return mo.None[user.User]()
	}
	return mo.Some(*u)
}
