package fetcher

//go:generate mockgen -source=client.go -destination=mocks/mock_http_doer.go -package=mocks HTTPDoer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"staffdir/internal/directory/fetcher/mocks"
	"staffdir/pkg/testutil"
)

func TestBuildRequestURL(t *testing.T) {
	params := QueryParams(DefaultFields, DefaultResults, DefaultNationalities)

	got := BuildRequestURL(DefaultBaseURL, params)

	assert.Equal(t,
		"https://randomuser.me/api/1.3/?inc=picture,name,email,location,cell,dob&results=12&nat=gb,us",
		got)
	assert.Equal(t, got, BuildRequestURL(DefaultBaseURL, params), "deterministic")
}

type ClientSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	doer *mocks.MockHTTPDoer
}

func (s *ClientSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.doer = mocks.NewMockHTTPDoer(s.ctrl)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) newClient() *Client {
	return New("http://people.test/api/?results=12", time.Second, WithHTTPClient(s.doer))
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func (s *ClientSuite) TestFetchPeople() {
	s.Run("returns raw results in order", func() {
		people := testutil.RawPeople(12)
		s.doer.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				s.Equal(http.MethodGet, req.Method)
				s.Equal("application/json", req.Header.Get("Accept"))
				s.Equal("results=12", req.URL.RawQuery)
				return response(http.StatusOK, string(testutil.ResponseBody(people))), nil
			})

		got, err := s.newClient().FetchPeople(context.Background())

		s.Require().NoError(err)
		s.Require().Len(got, 12)
		s.Equal("John", got[0].Name.First)
		s.Equal("Bennett", got[11].Name.Last)
	})

	s.Run("empty batch is not an error", func() {
		s.doer.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, `{"results":[]}`), nil)

		got, err := s.newClient().FetchPeople(context.Background())

		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("numeric postcode and street number decode as strings", func() {
		body := `{"results":[{"name":{"first":"Ava","last":"Morgan"},"location":{"street":{"number":4127,"name":"Elm St"},"postcode":90210}}]}`
		s.doer.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, body), nil)

		got, err := s.newClient().FetchPeople(context.Background())

		s.Require().NoError(err)
		s.Equal("4127", got[0].Location.Street.Number.String())
		s.Equal("90210", got[0].Location.Postcode.String())
	})
}

func (s *ClientSuite) TestFetchPeopleFailures() {
	tests := []struct {
		name       string
		resp       *http.Response
		doErr      error
		wantKind   ErrorKind
		wantStatus int
		wantMsg    string
	}{
		{name: "transport failure", doErr: errors.New("connection refused"), wantKind: ErrorNetwork, wantMsg: "failed to execute request"},
		{name: "not found", resp: response(http.StatusNotFound, ""), wantKind: ErrorHTTPStatus, wantStatus: http.StatusNotFound, wantMsg: "Not Found"},
		{name: "service unavailable", resp: response(http.StatusServiceUnavailable, "down"), wantKind: ErrorHTTPStatus, wantStatus: http.StatusServiceUnavailable, wantMsg: "Service Unavailable"},
		{name: "malformed json", resp: response(http.StatusOK, `{"results":[`), wantKind: ErrorDecode, wantMsg: "failed to parse response"},
		{name: "missing results", resp: response(http.StatusOK, `{"info":{}}`), wantKind: ErrorDecode, wantMsg: "response has no results"},
		{name: "upstream error body", resp: response(http.StatusOK, `{"error":"Uh oh, something has gone wrong."}`), wantKind: ErrorDecode, wantMsg: "upstream error"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.doer.EXPECT().Do(gomock.Any()).Return(tt.resp, tt.doErr)

			got, err := s.newClient().FetchPeople(context.Background())

			s.Nil(got)
			var fe *FetchError
			s.Require().ErrorAs(err, &fe)
			s.Equal(tt.wantKind, fe.Kind)
			s.Equal(tt.wantStatus, fe.StatusCode)
			s.Contains(fe.Error(), tt.wantMsg)
		})
	}
}

func TestFetchPeopleAgainstServer(t *testing.T) {
	t.Run("decodes a live response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "inc=picture,name,email,location,cell,dob&results=12&nat=gb,us", r.URL.RawQuery)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(testutil.ResponseBody(testutil.RawPeople(12)))
		}))
		defer srv.Close()

		url := BuildRequestURL(srv.URL+"/api/1.3/", QueryParams(DefaultFields, DefaultResults, DefaultNationalities))
		got, err := New(url, time.Second).FetchPeople(context.Background())

		require.NoError(t, err)
		assert.Len(t, got, 12)
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		var got []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = append(got, r.UserAgent())
			_, _ = w.Write(testutil.ResponseBody(testutil.RawPeople(0)))
		}))
		defer srv.Close()

		_, err := New(srv.URL, time.Second).FetchPeople(context.Background())
		require.NoError(t, err)
		_, err = New(srv.URL, time.Second, WithUserAgent("directory-kiosk/2.0")).FetchPeople(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"staffdir/1.0", "directory-kiosk/2.0"}, got)
	})

	t.Run("timeout is a network error", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := New(srv.URL, 0).FetchPeople(ctx)

		require.Error(t, err)
		assert.Equal(t, ErrorNetwork, KindOf(err))
		assert.Contains(t, err.Error(), "request timeout")
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorDecode, KindOf(newError(ErrorDecode, "bad", nil)))
}
