package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Pathology API stub
// ---------------------------------------------------------------------------

// stubAPI counts every call so tests can assert that nothing reached the
// network. Unset function fields panic, which flags an unexpected call.
type stubAPI struct {
	calls int

	loginFn        func(domain.Credentials) (string, error)
	signupFn       func(domain.Registration) (string, error)
	listUsersFn    func() ([]domain.User, error)
	renameFn       func(id, name string) error
	resetFn        func(id, password string) error
	setStatusFn    func(id string, status domain.UserStatus) error
	addPatientFn   func(domain.NewPatient) (string, error)
	getPatientFn   func(pathID string) (*domain.Patient, error)
	listPatientsFn func() ([]domain.Patient, error)
}

func (a *stubAPI) Login(_ context.Context, c domain.Credentials) (string, error) {
	a.calls++
	return a.loginFn(c)
}

func (a *stubAPI) Signup(_ context.Context, r domain.Registration) (string, error) {
	a.calls++
	return a.signupFn(r)
}

func (a *stubAPI) ListUsers(_ context.Context) ([]domain.User, error) {
	a.calls++
	return a.listUsersFn()
}

func (a *stubAPI) RenameUser(_ context.Context, id, name string) error {
	a.calls++
	return a.renameFn(id, name)
}

func (a *stubAPI) ResetPassword(_ context.Context, id, password string) error {
	a.calls++
	return a.resetFn(id, password)
}

func (a *stubAPI) SetUserStatus(_ context.Context, id string, status domain.UserStatus) error {
	a.calls++
	return a.setStatusFn(id, status)
}

func (a *stubAPI) AddPatient(_ context.Context, p domain.NewPatient) (string, error) {
	a.calls++
	return a.addPatientFn(p)
}

func (a *stubAPI) GetPatient(_ context.Context, pathID string) (*domain.Patient, error) {
	a.calls++
	return a.getPatientFn(pathID)
}

func (a *stubAPI) ListPatients(_ context.Context) ([]domain.Patient, error) {
	a.calls++
	return a.listPatientsFn()
}

// rejection mimics an error payload returned by the pathology service.
type rejection struct {
	errText, msgText string
}

func (r *rejection) Error() string          { return "rejected" }
func (r *rejection) PayloadError() string   { return r.errText }
func (r *rejection) PayloadMessage() string { return r.msgText }

// ---------------------------------------------------------------------------
// In-memory stores
// ---------------------------------------------------------------------------

type memSessions struct {
	byID    map[string]*domain.Session
	lastTTL time.Duration
}

func newMemSessions() *memSessions {
	return &memSessions{byID: make(map[string]*domain.Session)}
}

func (m *memSessions) Save(_ context.Context, s *domain.Session, ttl time.Duration) error {
	clone := *s
	m.byID[s.ID] = &clone
	m.lastTTL = ttl
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNoSession
	}
	clone := *s
	return &clone, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

// memScreens stores snapshots as JSON, like the Redis store, so that round
// trips go through the same encoding.
type memScreens struct {
	data map[string]map[string][]byte
	puts int
}

func newMemScreens() *memScreens {
	return &memScreens{data: make(map[string]map[string][]byte)}
}

func (m *memScreens) Put(_ context.Context, sid, screen string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if m.data[sid] == nil {
		m.data[sid] = make(map[string][]byte)
	}
	m.data[sid][screen] = raw
	m.puts++
	return nil
}

func (m *memScreens) Load(_ context.Context, sid, screen string, dst any) (bool, error) {
	raw, ok := m.data[sid][screen]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memScreens) Clear(_ context.Context, sid string) error {
	delete(m.data, sid)
	return nil
}

type memGuard struct {
	held     map[string]bool
	released []string
}

func newMemGuard() *memGuard { return &memGuard{held: make(map[string]bool)} }

func (g *memGuard) Acquire(_ context.Context, emp string) (bool, error) {
	if g.held[emp] {
		return false, nil
	}
	g.held[emp] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, emp string) error {
	delete(g.held, emp)
	g.released = append(g.released, emp)
	return nil
}

// ---------------------------------------------------------------------------
// Journal and exporter stubs
// ---------------------------------------------------------------------------

type recJournal struct {
	mu     sync.Mutex
	events []ports.LabelEvent
}

func (j *recJournal) Record(ev ports.LabelEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
}

type stubExporter struct {
	lastRows []ports.ReportRow
	err      error
}

func (e *stubExporter) Spreadsheet(rows []ports.ReportRow) ([]byte, error) {
	e.lastRows = rows
	return []byte("xlsx"), e.err
}

func (e *stubExporter) Document(rows []ports.ReportRow) ([]byte, error) {
	e.lastRows = rows
	return []byte("pdf"), e.err
}

func authedSession() *domain.Session {
	return &domain.Session{
		ID:         "sid-1",
		UserID:     "u-1",
		EmployeeID: "E100",
		State:      domain.SessionAuthenticated,
	}
}
