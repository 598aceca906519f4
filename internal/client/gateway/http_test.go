package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akarpovs/bannerdesk/internal/logging"
)

type staticTokens string

func (t staticTokens) AccessToken(context.Context) string { return string(t) }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDo_InjectsBearerTokenOnAuthCalls(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"body":{}}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, staticTokens("T1"), testLogger())
	resp, err := g.Do(context.Background(), Request{Path: "/api/v1/profile", Method: http.MethodGet, Auth: true})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "Bearer T1", gotAuth)
}

func TestDo_NoTokenFailsFastWithoutSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, staticTokens(""), testLogger())
	_, err := g.Do(context.Background(), Request{Path: "/api/v1/profile", Auth: true})
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.False(t, called, "nothing must be sent when the token is absent")
}

func TestDo_UnauthenticatedCallsSkipTokenRead(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, staticTokens("T1"), testLogger())
	_, err := g.Do(context.Background(), Request{Path: "/api/v1/auth/login", Method: http.MethodPost})
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestDo_EncodesBodyAndQuery(t *testing.T) {
	var gotPath, gotQuery, gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, staticTokens(""), testLogger())
	_, err := g.Do(context.Background(), Request{
		Path:   "/api/v1/banners",
		Method: http.MethodPost,
		Body:   map[string]string{"title": "Sale"},
		Query:  url.Values{"page": []string{"2"}},
	})
	require.NoError(t, err)
	require.Equal(t, "/api/v1/banners", gotPath)
	require.Equal(t, "page=2", gotQuery)
	require.JSONEq(t, `{"title":"Sale"}`, gotBody)
	require.Equal(t, "application/json", gotContentType)
}

func TestDo_NormalizesEnvelopeShapes(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantSuccess bool
		wantMessage string
		wantBodyKey string
	}{
		{"explicit envelope", `{"success":true,"message":"ok","body":{"id":"1"}}`, true, "ok", "id"},
		{"data alias", `{"success":true,"data":{"id":"1"}}`, true, "", "id"},
		{"bare object", `{"id":"1"}`, true, "", "id"},
		{"declared failure", `{"success":false,"message":"Invalid credentials"}`, false, "Invalid credentials", ""},
		{"empty body", ``, true, "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer srv.Close()

			g := NewHTTPGateway(srv.URL, staticTokens(""), testLogger())
			resp, err := g.Do(context.Background(), Request{Path: "/x"})
			require.NoError(t, err)
			require.Equal(t, tc.wantSuccess, resp.Success)
			require.Equal(t, tc.wantMessage, resp.Message)
			if tc.wantBodyKey != "" {
				require.Contains(t, resp.Body, tc.wantBodyKey)
			}
		})
	}
}

func TestDo_NonOKStatusBecomesRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, staticTokens("T1"), testLogger())
	_, err := g.Do(context.Background(), Request{Path: "/x", Auth: true})

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusUnauthorized, reqErr.Status)
	require.Equal(t, "token expired", reqErr.Message)
	require.NotErrorIs(t, err, ErrUnauthenticated, "server rejection is distinct from the local no-token error")
}

func TestDo_ErrorKeyFallbackAndStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid json"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, staticTokens(""), testLogger())
	_, err := g.Do(context.Background(), Request{Path: "/x"})

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "invalid json", reqErr.Message)

	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv2.Close()

	g2 := NewHTTPGateway(srv2.URL, staticTokens(""), testLogger())
	_, err = g2.Do(context.Background(), Request{Path: "/x"})
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusText(http.StatusInternalServerError), reqErr.Message)
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections from now on

	g := NewHTTPGateway(srv.URL, staticTokens(""), testLogger())
	_, err := g.Do(context.Background(), Request{Path: "/x"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_ContextCancellationPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewHTTPGateway(srv.URL, staticTokens(""), testLogger())
	_, err := g.Do(ctx, Request{Path: "/x"})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestDo_RejectsRelativePath(t *testing.T) {
	g := NewHTTPGateway("http://localhost:1", staticTokens(""), testLogger())
	_, err := g.Do(context.Background(), Request{Path: "no-slash"})
	require.ErrorIs(t, err, ErrValidation)
}
