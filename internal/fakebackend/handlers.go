package fakebackend

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aretw0/noteguard/pkg/core"
)

type ctxKey string

const userKey ctxKey = "user"

func currentUser(r *http.Request) core.User {
	u, _ := r.Context().Value(userKey).(core.User)
	return u
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		s.mu.Lock()
		id, ok := s.tokens[token]
		var u core.User
		if ok {
			if acc, exists := s.accounts[id]; exists {
				u = acc.user
			} else {
				ok = false
			}
		}
		s.mu.Unlock()

		if token == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"status":  http.StatusUnauthorized,
				"error":   "Unauthorized",
				"message": "Full authentication is required",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentUser(r).IsAdmin() {
			s.fail(w, http.StatusForbidden, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authResult(u core.User, token string) core.AuthResult {
	return core.AuthResult{Token: token, Type: "Bearer", UserID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds core.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.fail(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if (acc.user.Username == creds.EmailOrUsername || acc.user.Email == creds.EmailOrUsername) &&
			acc.password == creds.Password {
			s.ok(w, "Login successful", s.authResult(acc.user, s.issueTokenLocked(acc.user.ID)))
			return
		}
	}
	s.fail(w, http.StatusBadRequest, "Invalid username/email or password")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req core.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, "Malformed request")
		return
	}

	fieldErrors := map[string]string{}
	if len(req.Username) < 3 {
		fieldErrors["username"] = "Username must be at least 3 characters"
	}
	if !strings.Contains(req.Email, "@") {
		fieldErrors["email"] = "Email should be valid"
	}
	if len(req.Password) < 6 {
		fieldErrors["password"] = "Password must be at least 6 characters"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success":     false,
			"message":     "Validation failed",
			"fieldErrors": fieldErrors,
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.Username == req.Username {
			s.fail(w, http.StatusBadRequest, "Username is already taken")
			return
		}
		if acc.user.Email == req.Email {
			s.fail(w, http.StatusBadRequest, "Email is already in use")
			return
		}
	}
	u := s.addUserLocked(req.Username, req.Email, req.Password, core.RoleStandard)
	s.ok(w, "User registered successfully", s.authResult(u, s.issueTokenLocked(u.ID)))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	s.ok(w, "Token is valid", core.TokenValidity{Valid: true})
}

func (s *Server) sortedNotesLocked(keep func(*core.Note) bool) []core.Note {
	out := make([]core.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if keep(n) {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) handleListOwn(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	s.mu.Lock()
	notes := s.sortedNotesLocked(func(n *core.Note) bool { return n.OwnerID == u.ID })
	s.mu.Unlock()
	s.ok(w, "Notes retrieved successfully", notes)
}

// lookupLocked finds a note the current user may access, writing the error
// response itself when it fails.
func (s *Server) lookupLocked(w http.ResponseWriter, r *http.Request) (*core.Note, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid note id")
		return nil, false
	}
	n, ok := s.notes[id]
	if !ok {
		s.fail(w, http.StatusNotFound, "Note not found with id: "+strconv.FormatInt(id, 10))
		return nil, false
	}
	u := currentUser(r)
	if n.OwnerID != u.ID && !u.IsAdmin() {
		s.fail(w, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return n, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	s.ok(w, "Note retrieved successfully", *n)
}

func (s *Server) decodeFields(w http.ResponseWriter, r *http.Request) (core.NoteFields, bool) {
	var f core.NoteFields
	// LocalTime rejects offset timestamps, as a LocalDateTime field does.
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		s.fail(w, http.StatusBadRequest, "Malformed request")
		return f, false
	}
	return f, true
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, expiresIn time.Duration) {
	f, ok := s.decodeFields(w, r)
	if !ok {
		return
	}
	if f.Title == nil || strings.TrimSpace(*f.Title) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success":     false,
			"message":     "Validation failed",
			"fieldErrors": map[string]string{"title": "Title is required"},
		})
		return
	}

	u := currentUser(r)
	n := core.Note{Title: *f.Title, OwnerID: u.ID, ExpirationTime: f.ExpirationTime.AsTime()}
	if f.Content != nil {
		n.Content = *f.Content
	}
	if expiresIn > 0 {
		n.ExpirationTime = core.NewTime(s.Now().Add(expiresIn))
	}
	n = s.AddNote(n)
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Note created successfully", Data: n})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.create(w, r, 0)
}

func (s *Server) handleCreateWithExpiration(w http.ResponseWriter, r *http.Request) {
	hours, err := strconv.Atoi(r.URL.Query().Get("expirationHours"))
	if err != nil || hours <= 0 {
		s.fail(w, http.StatusBadRequest, "expirationHours must be a positive integer")
		return
	}
	s.create(w, r, time.Duration(hours)*time.Hour)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	f, ok := s.decodeFields(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	if f.Title != nil {
		n.Title = *f.Title
	}
	if f.Content != nil {
		n.Content = *f.Content
	}
	if f.ExpirationTime != nil {
		n.ExpirationTime = f.ExpirationTime.AsTime()
	}
	n.UpdatedAt = core.Time{Time: s.Now()}
	s.ok(w, "Note updated successfully", *n)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	delete(s.notes, n.ID)
	s.ok(w, "Note deleted successfully", nil)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if q := r.URL.Query().Get("expirationHours"); q != "" {
		h, err := strconv.Atoi(q)
		if err != nil || h <= 0 {
			s.fail(w, http.StatusBadRequest, "expirationHours must be a positive integer")
			return
		}
		hours = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	n.ShareToken = uuid.NewString()
	n.ShareExpirationTime = core.NewTime(s.Now().Add(time.Duration(hours) * time.Hour))
	s.ok(w, "Share token generated successfully", core.ShareResult{
		ShareURL:       "/api/notes/share/" + n.ShareToken,
		ShareToken:     n.ShareToken,
		ExpirationTime: n.ShareExpirationTime,
	})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	n.ShareToken = ""
	n.ShareExpirationTime = nil
	s.ok(w, "Share token revoked successfully", nil)
}

func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	now := s.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.ShareToken == "" || n.ShareToken != token {
			continue
		}
		if !n.ShareActive(now) || n.IsExpired(now) {
			s.fail(w, http.StatusNotFound, "Share link has expired")
			return
		}
		s.ok(w, "Shared note retrieved successfully", *n)
		return
	}
	s.fail(w, http.StatusNotFound, "Shared note not found")
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	now := s.Now()
	s.mu.Lock()
	for id, n := range s.notes {
		if n.IsExpired(now) {
			delete(s.notes, id)
			continue
		}
		if n.IsShared() && !n.ShareActive(now) {
			n.ShareToken = ""
			n.ShareExpirationTime = nil
		}
	}
	s.mu.Unlock()
	s.ok(w, "Manual cleanup completed successfully", "Cleanup executed")
}

func (s *Server) handleCleanupStats(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if q := r.URL.Query().Get("hours"); q != "" {
		if h, err := strconv.Atoi(q); err == nil && h > 0 {
			hours = h
		}
	}
	now := s.Now()
	horizon := now.Add(time.Duration(hours) * time.Hour)

	s.mu.Lock()
	var count int64
	for _, n := range s.notes {
		if n.ExpirationTime != nil && n.ExpirationTime.After(now) && !n.ExpirationTime.After(horizon) {
			count++
		}
	}
	s.mu.Unlock()
	s.ok(w, "Cleanup statistics retrieved", core.CleanupStats{NotesExpiringCount: count, HoursAhead: hours})
}

func (s *Server) handleAllUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]core.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	s.mu.Unlock()
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	s.ok(w, "Users retrieved successfully", users)
}

func (s *Server) handleAllNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	notes := s.sortedNotesLocked(func(*core.Note) bool { return true })
	s.mu.Unlock()
	s.ok(w, "Notes retrieved successfully", notes)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		s.fail(w, http.StatusNotFound, "User not found")
		return
	}
	if acc.user.IsAdmin() {
		s.fail(w, http.StatusForbidden, "Cannot delete admin users")
		return
	}
	delete(s.accounts, id)
	for nid, n := range s.notes {
		if n.OwnerID == id {
			delete(s.notes, nid)
		}
	}
	for tok, uid := range s.tokens {
		if uid == id {
			delete(s.tokens, tok)
		}
	}
	s.ok(w, "User deleted successfully", nil)
}

func (s *Server) handleAdminDeleteNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	delete(s.notes, n.ID)
	s.ok(w, "Note deleted successfully", nil)
}

func (s *Server) userStats() core.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st core.UserStats
	for _, acc := range s.accounts {
		st.TotalUsers++
		if acc.user.IsAdmin() {
			st.AdminUsers++
		} else {
			st.RegularUsers++
		}
	}
	return st
}

// noteStats is encoded with the backend's field names.
type noteStats struct {
	TotalNotes      int64 `json:"totalNotes"`
	NotesWithShares int64 `json:"notesWithShares"`
	ExpiredNotes    int64 `json:"expiredNotes"`
}

func (s *Server) noteStats() noteStats {
	now := s.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var st noteStats
	for _, n := range s.notes {
		st.TotalNotes++
		if n.IsShared() {
			st.NotesWithShares++
		}
		if n.IsExpired(now) {
			st.ExpiredNotes++
		}
	}
	return st
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	s.ok(w, "User statistics retrieved successfully", s.userStats())
}

func (s *Server) handleNoteStats(w http.ResponseWriter, r *http.Request) {
	s.ok(w, "Note statistics retrieved successfully", s.noteStats())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.ok(w, "Dashboard data retrieved successfully", map[string]any{
		"userStats": s.userStats(),
		"noteStats": s.noteStats(),
	})
}
