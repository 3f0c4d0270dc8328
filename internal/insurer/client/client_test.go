package client

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverflow/internal/insurer/wire"
	"coverflow/internal/platform/config"
)

type staticTokens struct{}

func (staticTokens) AccessToken(context.Context) (string, error) {
	return "test-token", nil
}

type ClientSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

// newClient builds a client against srv with retry backoff shrunk so the
// retry paths run in milliseconds.
func (s *ClientSuite) newClient(srv *httptest.Server) *Client {
	c := New(config.Insurer{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, staticTokens{}, srv.Client(), nil, nil)
	c.backoff = time.Millisecond
	return c
}

func (s *ClientSuite) TestRetryBehavior() {
	ctx := context.Background()

	s.Run("4xx fails on the first attempt without retrying", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"code":"VALIDATION","message":"birth date missing"}`))
		}))
		defer srv.Close()

		_, err := s.newClient(srv).CalculateOffer(ctx, wire.CalculateRequest{})
		s.Error(err)
		s.Equal(int32(1), calls.Load())

		var clientErr *ClientError
		s.ErrorAs(err, &clientErr)
		s.Equal(http.StatusUnprocessableEntity, clientErr.StatusCode)
		s.Equal("VALIDATION", clientErr.Code)
		s.Equal("birth date missing", clientErr.Message)
	})

	s.Run("5xx retries up to three attempts", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := s.newClient(srv).CalculateOffer(ctx, wire.CalculateRequest{})
		s.Error(err)
		s.Equal(int32(3), calls.Load())

		var transient *TransientError
		s.ErrorAs(err, &transient)
		s.Equal(http.StatusBadGateway, transient.StatusCode)
	})

	s.Run("5xx then success returns the decoded response", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"offerId":"offer-7"}`))
		}))
		defer srv.Close()

		resp, err := s.newClient(srv).CalculateOffer(ctx, wire.CalculateRequest{})
		s.NoError(err)
		s.Equal(int32(2), calls.Load())
		s.Equal("offer-7", resp.OfferID)
	})

	s.Run("retry warnings are logged only when a retry follows", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		var logs bytes.Buffer
		c := New(config.Insurer{BaseURL: srv.URL, Timeout: 5 * time.Second},
			staticTokens{}, srv.Client(), nil, slog.New(slog.NewTextHandler(&logs, nil)))
		c.backoff = time.Millisecond

		_, err := c.CalculateOffer(ctx, wire.CalculateRequest{})
		s.Error(err)

		// Three attempts, two retries: the final failure must not promise one.
		s.Equal(2, strings.Count(logs.String(), "will retry"))
	})

	s.Run("network failure is transient and retried", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // all connections now fail

		c := New(config.Insurer{BaseURL: srv.URL, Timeout: time.Second}, staticTokens{}, nil, nil, nil)
		c.backoff = time.Millisecond

		_, err := c.CalculateOffer(ctx, wire.CalculateRequest{})
		s.Error(err)

		var transient *TransientError
		s.ErrorAs(err, &transient)
		s.Zero(transient.StatusCode)
	})
}

func (s *ClientSuite) TestResponseHandling() {
	ctx := context.Background()

	s.Run("empty body with 200 is a success", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		resp, err := s.newClient(srv).NotifyPayment(ctx, wire.PaymentNotification{PolicyNumber: "PL-1"})
		s.NoError(err)
		s.Zero(resp)
	})

	s.Run("204 is a success", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		_, err := s.newClient(srv).NotifyPayment(ctx, wire.PaymentNotification{PolicyNumber: "PL-1"})
		s.NoError(err)
	})

	s.Run("non-JSON error body is preserved as the message", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("malformed payload"))
		}))
		defer srv.Close()

		_, err := s.newClient(srv).CalculateOffer(ctx, wire.CalculateRequest{})
		var clientErr *ClientError
		s.ErrorAs(err, &clientErr)
		s.Equal("malformed payload", clientErr.Message)
	})

	s.Run("bearer token is attached to every request", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.Equal("Bearer test-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"policyNumber":"PL-1","status":"ACTIVE"}`))
		}))
		defer srv.Close()

		policy, err := s.newClient(srv).GetPolicy(ctx, "PL-1")
		s.NoError(err)
		s.Equal("ACTIVE", policy.Status)
	})
}

func (s *ClientSuite) TestQueryEncoding() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("PL-42", r.URL.Query().Get("policyNumber"))
		w.Write([]byte(`{"policyNumber":"PL-42"}`))
	}))
	defer srv.Close()

	policy, err := s.newClient(srv).GetPolicy(context.Background(), "PL-42")
	s.NoError(err)
	s.Equal("PL-42", policy.PolicyNumber)
}

func (s *ClientSuite) TestContextCancellationStopsRetries() {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := s.newClient(srv)
	c.backoff = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.CalculateOffer(ctx, wire.CalculateRequest{})
	s.Error(err)
	s.Less(calls.Load(), int32(3))
}
