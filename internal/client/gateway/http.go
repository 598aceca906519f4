package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akarpovs/bannerdesk/internal/common"
	"github.com/akarpovs/bannerdesk/internal/logging"
)

const defaultTimeout = 12 * time.Second

// HTTPGateway is the production Gateway over net/http.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	log     logging.Logger
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(baseURL string, tokens TokenSource, log logging.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		log:     log,
	}
}

func (g *HTTPGateway) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Path == "" || !strings.HasPrefix(req.Path, "/") {
		return nil, fmt.Errorf("%w: path must start with '/'", ErrValidation)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var token string
	if req.Auth {
		// Read at call time so a token stored after the gateway was built
		// (or cleared by another process) is always honored.
		token = g.tokens.AccessToken(ctx)
		if token == "" {
			return nil, ErrUnauthenticated
		}
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: body not serializable: %v", ErrValidation, err)
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := g.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		g.log.Warn(ctx, "request transport failed", "method", method, "path", req.Path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Status:  resp.StatusCode,
			Message: serverMessage(payload, resp.StatusCode),
		}
	}

	return normalize(payload), nil
}

// normalize converts a 2xx payload into the uniform envelope. The backend's
// preferred shape is {success, body, message}; older endpoints return the
// object directly, which is treated as a successful body.
func normalize(payload []byte) *Response {
	var raw map[string]any
	if len(payload) == 0 || json.Unmarshal(payload, &raw) != nil {
		return &Response{Success: true, Body: map[string]any{}}
	}

	out := &Response{Success: true, Body: raw}

	if success, ok := raw["success"].(bool); ok {
		out.Success = success
	}
	if msg, ok := raw["message"].(string); ok {
		out.Message = msg
	}
	if nested, ok := raw["body"].(map[string]any); ok {
		out.Body = nested
	} else if nested, ok := raw["data"].(map[string]any); ok {
		out.Body = nested
	}
	return out
}

// serverMessage digs the human-readable message out of an error payload,
// falling back to the HTTP status text.
func serverMessage(payload []byte, status int) string {
	var raw map[string]any
	if json.Unmarshal(payload, &raw) == nil {
		if msg, ok := raw["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := raw["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}
