package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/yapjournal/yap/internal/repositories"
	"github.com/yapjournal/yap/internal/shared"
)

// SessionCookie is the name of the cookie carrying the session handle.
const SessionCookie = "yap_session"

// SessionContext identifies the user a request acts on behalf of. It is
// injected explicitly into the request context by the session middleware,
// never read from globals. Sessions scope visibility only; they are not an
// authentication boundary.
type SessionContext struct {
	UserID int64
}

type sessionContextKey struct{}

// SessionFromContext extracts the [SessionContext] placed by the middleware.
func SessionFromContext(ctx context.Context) (SessionContext, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(SessionContext)
	return sess, ok
}

// SessionStore maps opaque session handles to user ids. Handles live in
// memory for the lifetime of the process; an unknown or absent handle is
// replaced by a fresh one bound to the default user.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]int64
	users    *repositories.UserRepository
	logger   *log.Logger
}

// NewSessionStore creates a [SessionStore] resolving unknown sessions
// through the given user repository.
func NewSessionStore(users *repositories.UserRepository, logger *log.Logger) *SessionStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SessionStore{
		sessions: make(map[string]int64),
		users:    users,
		logger:   logger,
	}
}

// Middleware resolves the request's session: an existing cookie keeps its
// user, anything else is bound lazily to the default user (created on first
// use). The resolved [SessionContext] rides the request context.
func (s *SessionStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			if userID, ok := s.lookup(cookie.Value); ok {
				next.ServeHTTP(w, r.WithContext(s.inject(r.Context(), userID)))
				return
			}
		}

		user, err := s.users.GetOrCreateDefault()
		if err != nil {
			s.logger.Error("failed to resolve default user", "error", err)
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}

		handle := shared.GenerateID()
		s.bind(handle, user.ID)

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    handle,
			Path:     "/",
			HttpOnly: true,
		})

		next.ServeHTTP(w, r.WithContext(s.inject(r.Context(), user.ID)))
	})
}

func (s *SessionStore) inject(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, SessionContext{UserID: userID})
}

func (s *SessionStore) lookup(handle string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[handle]
	return userID, ok
}

func (s *SessionStore) bind(handle string, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[handle] = userID
}

// Bind registers a session handle for a specific user. Used by tests and by
// tooling that needs requests scoped to a non-default user.
func (s *SessionStore) Bind(handle string, userID int64) {
	s.bind(handle, userID)
}
