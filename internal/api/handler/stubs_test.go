package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/api/middleware"
	"github.com/aph/pathlabel/internal/api/view"
	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/core/service"
	"github.com/aph/pathlabel/internal/label"
)

const testToken = "sid-1"

func authedSession() *domain.Session {
	return &domain.Session{ID: "sid-1", UserID: "u-1", EmployeeID: "E100", State: domain.SessionAuthenticated}
}

type stubAuthService struct {
	loginFn  func(ctx context.Context, creds domain.Credentials) (string, *domain.Session, error)
	signupFn func(ctx context.Context, reg domain.Registration) (string, error)
	logoutFn func(ctx context.Context, sessionID string) error
	sessions map[string]*domain.Session
}

func newStubAuth() *stubAuthService {
	return &stubAuthService{sessions: map[string]*domain.Session{testToken: authedSession()}}
}

func (s *stubAuthService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Session, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubAuthService) Signup(ctx context.Context, reg domain.Registration) (string, error) {
	return s.signupFn(ctx, reg)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	if s.logoutFn != nil {
		return s.logoutFn(ctx, sessionID)
	}
	return nil
}

func (s *stubAuthService) Session(_ context.Context, sessionID string) (*domain.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

func (s *stubAuthService) ParseToken(token string) (string, error) { return token, nil }

type stubIntakeService struct {
	submitFn func(ctx context.Context, sess *domain.Session, form ports.IntakeForm) (*ports.IntakeResult, error)
	calls    int
}

func (s *stubIntakeService) Submit(ctx context.Context, sess *domain.Session, form ports.IntakeForm) (*ports.IntakeResult, error) {
	s.calls++
	return s.submitFn(ctx, sess, form)
}

type stubReprintService struct {
	lookupFn func(ctx context.Context, pathID string) (*domain.Patient, error)
}

func (s *stubReprintService) Lookup(ctx context.Context, pathID string) (*domain.Patient, error) {
	return s.lookupFn(ctx, pathID)
}

type stubReportService struct {
	loadFn   func(ctx context.Context, sessionID string) (int, error)
	viewFn   func(ctx context.Context, sessionID string, q ports.ReportQuery) (*ports.ReportResult, error)
	exportFn func(ctx context.Context, sessionID string, q ports.ReportQuery, format string) (*ports.ReportExport, error)
	loads    int
}

func (s *stubReportService) Load(ctx context.Context, sessionID string) (int, error) {
	s.loads++
	if s.loadFn == nil {
		return 0, nil
	}
	return s.loadFn(ctx, sessionID)
}

func (s *stubReportService) View(ctx context.Context, sessionID string, q ports.ReportQuery) (*ports.ReportResult, error) {
	return s.viewFn(ctx, sessionID, q)
}

func (s *stubReportService) Export(ctx context.Context, sessionID string, q ports.ReportQuery, format string) (*ports.ReportExport, error) {
	return s.exportFn(ctx, sessionID, q, format)
}

type stubUserService struct {
	loadFn   func(ctx context.Context, sessionID string) ([]domain.User, error)
	listFn   func(ctx context.Context, sessionID, search string) ([]domain.User, error)
	renameFn func(ctx context.Context, sessionID, id, firstName string) (string, error)
	resetFn  func(ctx context.Context, sessionID, id, password string) (string, error)
	toggleFn func(ctx context.Context, sessionID, id string) (string, error)
}

func (s *stubUserService) Load(ctx context.Context, sessionID string) ([]domain.User, error) {
	return s.loadFn(ctx, sessionID)
}

func (s *stubUserService) List(ctx context.Context, sessionID, search string) ([]domain.User, error) {
	return s.listFn(ctx, sessionID, search)
}

func (s *stubUserService) Rename(ctx context.Context, sessionID, id, firstName string) (string, error) {
	return s.renameFn(ctx, sessionID, id, firstName)
}

func (s *stubUserService) ResetPassword(ctx context.Context, sessionID, id, password string) (string, error) {
	return s.resetFn(ctx, sessionID, id, password)
}

func (s *stubUserService) ToggleStatus(ctx context.Context, sessionID, id string) (string, error) {
	return s.toggleFn(ctx, sessionID, id)
}

type recJournal struct {
	events []ports.LabelEvent
}

func (j *recJournal) Record(ev ports.LabelEvent) { j.events = append(j.events, ev) }

// newEcho returns an echo instance configured like the production router,
// minus global middleware.
func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := view.New()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

func newLabelService(journal ports.JournalService) *service.LabelService {
	if journal == nil {
		journal = service.NewJournalService(nil, zerolog.Nop())
	}
	return service.NewLabelService(label.NewRenderer(label.DefaultLayout()), journal)
}

// do sends a request with the test session cookie unless anonymous is set.
func do(e *echo.Echo, method, target string, form url.Values, anonymous bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if !anonymous {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: testToken})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
