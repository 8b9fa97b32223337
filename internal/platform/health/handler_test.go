package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

type HealthSuite struct {
	suite.Suite
	handler *Handler
	router  chi.Router
}

func TestHealthSuite(t *testing.T) {
	suite.Run(t, new(HealthSuite))
}

func (s *HealthSuite) SetupTest() {
	s.handler = New("test")
	s.router = chi.NewRouter()
	s.handler.Register(s.router)
}

func (s *HealthSuite) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *HealthSuite) TestLiveness() {
	rec := s.get("/health/live")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"alive"}`, rec.Body.String())
}

func (s *HealthSuite) TestReadinessWithoutChecks() {
	rec := s.get("/health/ready")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ready"}`, rec.Body.String())
}

func (s *HealthSuite) TestReadinessFailingCheck() {
	s.handler.RegisterCheck("directory", func(context.Context) error {
		return errors.New("directory loading")
	})
	s.handler.RegisterCheck("other", func(context.Context) error { return nil })

	rec := s.get("/health/ready")

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	var resp ReadinessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("not_ready", resp.Status)
	s.Equal("down: directory loading", resp.Checks["directory"])
	s.Equal("up", resp.Checks["other"])
}

func (s *HealthSuite) TestStatus() {
	rec := s.get("/health")

	s.Equal(http.StatusOK, rec.Code)
	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("healthy", resp.Status)
	s.Equal("test", resp.Environment)
	s.Equal(Version, resp.Version)
}
