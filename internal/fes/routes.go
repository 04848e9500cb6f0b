// Package fes emulates the FlowCrypt Enterprise Server (FES) API surface for
// end-to-end tests.
//
// A Dispatcher owns a static table of literal paths. Each route checks the
// host and method itself, authenticates the caller against the token ledger
// where the real service would, validates the request body with testify
// assertions, and returns a canned JSON-serializable result or a
// *types.AppError.
//
// The per-recipient gateway callback routes are derived from the external ids
// the message builders hand out, so a callback is only routable for an id the
// mock could have produced.
package fes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/stretchr/testify/require"

	"fesmock/internal/ledger"
	"fesmock/internal/types"
)

// Route paths served by the mock.
const (
	PathServiceInfo   = "/api/"
	PathClientConfig  = "/api/v1/client-configuration"
	PathNewReplyToken = "/api/v1/message/new-reply-token"
	PathMessage       = "/api/v1/message"
)

// GatewayPath returns the per-recipient gateway callback path for an external id.
func GatewayPath(externalID string) string {
	return "/api/v1/message/" + externalID + "/gateway"
}

// HandlerFunc handles one mock route.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

// Route binds a literal path to its handler.
type Route struct {
	Path    string
	Handler HandlerFunc
}

// ServiceInfo is the service discovery document returned by GET /api/.
type ServiceInfo struct {
	Vendor     string `json:"vendor"`
	Service    string `json:"service"`
	OrgID      string `json:"orgId"`
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
}

// ClientConfiguration is the organisation policy returned to clients.
type ClientConfiguration struct {
	DisallowAttesterSearchForDomains []string `json:"disallow_attester_search_for_domains"`
}

// ClientConfigurationResponse wraps ClientConfiguration.
type ClientConfigurationResponse struct {
	ClientConfiguration ClientConfiguration `json:"clientConfiguration"`
}

// ReplyTokenResponse is returned by the new-reply-token route.
type ReplyTokenResponse struct {
	ReplyToken string `json:"replyToken"`
}

// GatewayResponse is the empty object acknowledging a gateway callback.
type GatewayResponse struct{}

// Dispatcher routes requests to the FES mock handlers.
type Dispatcher struct {
	Settings Settings
	Auth     *Authenticator
	Logger   *slog.Logger

	// Asserter receives body assertion failures. When nil, every request
	// gets its own PanicT, which is what a real http.Server or
	// httptest.Server needs. A *testing.T may be set only when requests are
	// served on the test goroutine (Dispatch called directly, or the handler
	// invoked with httptest.NewRecorder): FailNow must run on that goroutine.
	Asserter require.TestingT

	routes         []Route
	byPath         map[string]HandlerFunc
	gatewayPattern *regexp.Regexp
}

// NewDispatcher builds the route table for the given settings. The ledger and
// parser are required; the ledger is shared by every route of the dispatcher.
func NewDispatcher(s Settings, l *ledger.Ledger, parser IdentityParser, logger *slog.Logger) (*Dispatcher, error) {
	if s.OrgDomain == "" {
		return nil, fmt.Errorf("org domain must not be empty")
	}
	if l == nil {
		return nil, fmt.Errorf("ledger must not be nil")
	}
	if parser == nil {
		return nil, fmt.Errorf("identity parser must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	d := &Dispatcher{
		Settings: s,
		Auth:     &Authenticator{Ledger: l, Parser: parser},
		Logger:   logger,
		gatewayPattern: regexp.MustCompile(
			`\{"emailGatewayMessageId":"<(.+)@` + regexp.QuoteMeta(s.OrgDomain) + `>"\}`,
		),
	}

	d.routes = []Route{
		{Path: PathServiceInfo, Handler: d.handleServiceInfo},
		{Path: PathClientConfig, Handler: d.handleClientConfiguration},
		{Path: PathNewReplyToken, Handler: d.handleNewReplyToken},
		{Path: PathMessage, Handler: d.handleMessage},
	}
	for _, id := range issuedExternalIDs(s) {
		d.routes = append(d.routes, Route{Path: GatewayPath(id), Handler: d.handleGateway})
	}

	d.byPath = make(map[string]HandlerFunc, len(d.routes))
	for _, r := range d.routes {
		d.byPath[r.Path] = r.Handler
	}
	return d, nil
}

// Routes returns the route table in registration order.
func (d *Dispatcher) Routes() []Route {
	return append([]Route(nil), d.routes...)
}

// Dispatch runs the handler registered for req.Path. Unknown paths yield a
// 404 AppError. The HTTP chassis calls it for every mounted route; harnesses
// may also call it directly to drive the mock without a server.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (any, error) {
	h, ok := d.byPath[req.Path]
	if !ok {
		return nil, types.NewHTTPError(http.StatusNotFound, "Not Found")
	}
	return h(ctx, req)
}

func (d *Dispatcher) asserter() require.TestingT {
	if d.Asserter != nil {
		return d.Asserter
	}
	return &PanicT{}
}

func (d *Dispatcher) isStandardHost(req *Request) bool {
	return req.Host == d.Settings.StandardHost()
}

func (d *Dispatcher) authenticate(ctx context.Context, req *Request, class TokenClass) (string, error) {
	email, err := d.Auth.Authenticate(req, class)
	if err != nil {
		d.Logger.WarnContext(ctx, "mock FES rejected access token",
			"path", req.Path,
			"token_class", class.String(),
			"error", err,
		)
		return "", err
	}
	d.Logger.DebugContext(ctx, "mock FES authenticated caller",
		"path", req.Path,
		"token_class", class.String(),
		"email", email,
	)
	return email, nil
}

func (d *Dispatcher) handleServiceInfo(_ context.Context, req *Request) (any, error) {
	if d.isStandardHost(req) && req.Method == http.MethodGet {
		return &ServiceInfo{
			Vendor:     "Mock",
			Service:    "enterprise-server",
			OrgID:      d.Settings.OrgID(),
			Version:    "MOCK",
			APIVersion: "v1",
		}, nil
	}
	// Enterprise clients tolerate a missing FES only on an explicit 404.
	if d.Settings.isAbsentHost(req.Host) {
		return nil, types.NewAppError(types.ErrCodeNotFoundService, "Not found", nil)
	}
	return nil, types.NewClientError("Not running any FES here: " + req.Host)
}

func (d *Dispatcher) handleClientConfiguration(_ context.Context, req *Request) (any, error) {
	if req.Method != http.MethodGet {
		return nil, types.NewAppError(types.ErrCodeClientUnsupported, "Unsupported method", nil)
	}
	if d.isStandardHost(req) && req.RawQuery == "domain="+d.Settings.OrgDomain {
		return &ClientConfigurationResponse{
			ClientConfiguration: ClientConfiguration{
				DisallowAttesterSearchForDomains: []string{"got.this@fromstandardfes.com"},
			},
		}, nil
	}
	return nil, types.NewClientError(fmt.Sprintf("Unexpected FES domain %q and url %q", req.Host, req.RequestURI()))
}

func (d *Dispatcher) handleNewReplyToken(ctx context.Context, req *Request) (any, error) {
	if !d.isStandardHost(req) || req.Method != http.MethodPost {
		return nil, types.NewHTTPError(http.StatusNotFound, "Not Found")
	}
	email, err := d.authenticate(ctx, req, FreshToken)
	if err != nil {
		return nil, err
	}
	d.Auth.Ledger.Record(ReplyToken, email)
	d.Logger.InfoContext(ctx, "mock FES issued reply token", "email", email)
	return &ReplyTokenResponse{ReplyToken: ReplyToken}, nil
}

func (d *Dispatcher) handleMessage(ctx context.Context, req *Request) (any, error) {
	body, isText := req.TextBody()
	if d.isStandardHost(req) && req.Method == http.MethodPost && isText {
		if _, err := d.authenticate(ctx, req, FreshToken); err != nil {
			return nil, err
		}
		switch {
		case strings.Contains(body, userProfile(d.Settings).senderMarker):
			return ProcessMessageFromUser(d.asserter(), d.Settings, body), nil
		case strings.Contains(body, user2Profile(d.Settings).senderMarker):
			return ProcessMessageFromUser2(d.asserter(), d.Settings, body), nil
		}
	}
	return nil, types.NewHTTPError(http.StatusNotFound, "Not Found")
}

func (d *Dispatcher) handleGateway(ctx context.Context, req *Request) (any, error) {
	if !d.isStandardHost(req) || req.Method != http.MethodPost {
		return nil, types.NewHTTPError(http.StatusNotFound, "Not Found")
	}
	if _, err := d.authenticate(ctx, req, IssuedToken); err != nil {
		return nil, err
	}
	require.Regexp(d.asserter(), d.gatewayPattern, string(req.Body))
	return &GatewayResponse{}, nil
}
