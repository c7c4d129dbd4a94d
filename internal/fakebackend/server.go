// Package fakebackend is an in-memory NoteGuard backend served over
// httptest, used by the client test suites.
package fakebackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aretw0/noteguard/pkg/core"
)

type account struct {
	user     core.User
	password string
}

type injected struct {
	status int
	body   []byte
}

// Recorded is a request as seen by the server.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// Server is a fake backend. All exported methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	// Now is the server clock.
	Now func() time.Time

	mu         sync.Mutex
	accounts   map[int64]*account
	tokens     map[string]int64
	notes      map[int64]*core.Note
	nextUserID int64
	nextNoteID int64
	failures   map[string]injected
	requests   []Recorded
}

// New starts a server. Call Close when done.
func New() *Server {
	s := &Server{
		Now:        time.Now,
		accounts:   make(map[int64]*account),
		tokens:     make(map[string]int64),
		notes:      make(map[int64]*core.Note),
		nextUserID: 1,
		nextNoteID: 1,
		failures:   make(map[string]injected),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL is the API root clients should use.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddUser creates an account directly.
func (s *Server) AddUser(username, email, password string, role core.Role) core.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, email, password, role)
}

func (s *Server) addUserLocked(username, email, password string, role core.Role) core.User {
	now := core.NewTime(s.Now())
	u := core.User{ID: s.nextUserID, Username: username, Email: email, Role: role, CreatedAt: now, UpdatedAt: now}
	s.nextUserID++
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

// IssueToken returns a valid token for userID.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokenLocked(userID)
}

func (s *Server) issueTokenLocked(userID int64) string {
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

// RevokeToken makes token invalid.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// AddNote stores a note directly and returns it.
func (s *Server) AddNote(n core.Note) core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.nextNoteID
	s.nextNoteID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = core.Time{Time: s.Now()}
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	stored := n
	s.notes[n.ID] = &stored
	return n
}

// Note returns the stored copy of a note.
func (s *Server) Note(id int64) (core.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return core.Note{}, false
	}
	return *n, true
}

// Fail makes the next requests matching method and path (relative to the API
// root, e.g. "/notes/user") answer with status and body until Recover is called.
func (s *Server) Fail(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, _ := json.Marshal(body)
	s.failures[method+" "+path] = injected{status: status, body: data}
}

// Recover removes every injected failure.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]injected)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// LastRequest returns the most recent request matching method and path.
func (s *Server) LastRequest(method, path string) (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if r := s.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Recorded{}, false
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		f, failing := s.failures[r.Method+" "+path]
		s.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write(f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(s.record)

		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Get("/notes/share/{token}", s.handleShared)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticated)

			r.Get("/auth/validate", s.handleValidate)
			r.Get("/notes/user", s.handleListOwn)
			r.Post("/notes", s.handleCreate)
			r.Post("/notes/with-expiration", s.handleCreateWithExpiration)
			r.Get("/notes/{id}", s.handleGet)
			r.Put("/notes/{id}", s.handleUpdate)
			r.Delete("/notes/{id}", s.handleDelete)
			r.Post("/notes/{id}/share", s.handleShare)
			r.Delete("/notes/{id}/share", s.handleRevoke)

			r.Group(func(r chi.Router) {
				r.Use(s.adminOnly)

				r.Post("/notes/admin/cleanup", s.handleCleanup)
				r.Get("/notes/admin/cleanup/stats", s.handleCleanupStats)
				r.Get("/admin/users", s.handleAllUsers)
				r.Get("/admin/notes", s.handleAllNotes)
				r.Delete("/admin/users/{id}", s.handleDeleteUser)
				r.Delete("/admin/notes/{id}", s.handleAdminDeleteNote)
				r.Get("/admin/stats/users", s.handleUserStats)
				r.Get("/admin/stats/notes", s.handleNoteStats)
				r.Get("/admin/dashboard", s.handleDashboard)
			})
		})
	})
	return r
}

type envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) ok(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data, Timestamp: s.Now().UnixMilli()})
}

func (s *Server) fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message, Timestamp: s.Now().UnixMilli()})
}
