package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	id "academix/pkg/domain"
	"academix/pkg/requestcontext"
)

const testStudentID = "550e8400-e29b-41d4-a716-446655440001"

// MockJWTValidator is a testify mock for JWTValidator
type MockJWTValidator struct {
	mock.Mock
}

func (m *MockJWTValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	args := m.Called(tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*JWTClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingHandler struct {
	called bool
	ctx    context.Context
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type AuthMiddlewareSuite struct {
	suite.Suite
	validator *MockJWTValidator
	logger    *slog.Logger
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.validator = new(MockJWTValidator)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *AuthMiddlewareSuite) do(mw func(http.Handler) http.Handler, headers map[string]string) (*recordingHandler, *httptest.ResponseRecorder) {
	next := &recordingHandler{}
	req := httptest.NewRequest(http.MethodPost, "/certificates/issue", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	mw(next).ServeHTTP(w, req)
	return next, w
}

func (s *AuthMiddlewareSuite) TestValidTokenPopulatesStudent() {
	s.validator.On("ValidateToken", "good").Return(&JWTClaims{Subject: testStudentID, JTI: "j1"}, nil)

	next, w := s.do(RequireAuth(s.validator, s.logger), map[string]string{"Authorization": "Bearer good"})

	s.Equal(http.StatusOK, w.Code)
	s.Require().True(next.called)
	want, _ := id.ParseStudentID(testStudentID)
	s.Equal(want, requestcontext.StudentID(next.ctx))
	s.False(requestcontext.IsAdmin(next.ctx))
	s.validator.AssertExpectations(s.T())
}

func (s *AuthMiddlewareSuite) TestRejections() {
	s.Run("missing header", func() {
		next, w := s.do(RequireAuth(s.validator, s.logger), nil)
		s.False(next.called)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("non-bearer scheme", func() {
		next, w := s.do(RequireAuth(s.validator, s.logger), map[string]string{"Authorization": "Basic abc"})
		s.False(next.called)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("invalid token", func() {
		s.validator.On("ValidateToken", "bad").Return(nil, errors.New("expired")).Once()
		next, w := s.do(RequireAuth(s.validator, s.logger), map[string]string{"Authorization": "Bearer bad"})
		s.False(next.called)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("subject is not a student id", func() {
		s.validator.On("ValidateToken", "odd").Return(&JWTClaims{Subject: "service-account"}, nil).Once()
		next, w := s.do(RequireAuth(s.validator, s.logger), map[string]string{"Authorization": "Bearer odd"})
		s.False(next.called)
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *AuthMiddlewareSuite) TestAdminTokenBypass() {
	mw := RequireAuth(s.validator, s.logger, WithAdminToken("ops-secret"))

	s.Run("matching admin token skips bearer validation", func() {
		next, w := s.do(mw, map[string]string{"X-Admin-Token": "ops-secret", "X-Admin-Actor-ID": "scheduler"})
		s.Equal(http.StatusOK, w.Code)
		s.True(requestcontext.IsAdmin(next.ctx))
		s.Equal("scheduler", requestcontext.AdminActor(next.ctx))
		s.True(requestcontext.StudentID(next.ctx).IsNil())
	})

	s.Run("wrong admin token falls through to bearer check", func() {
		next, w := s.do(mw, map[string]string{"X-Admin-Token": "guess"})
		s.False(next.called)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.validator.AssertNotCalled(s.T(), "ValidateToken", mock.Anything)
}
