package fes

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"fesmock/internal/ledger"
)

const (
	standardHost = "fes.standardsubdomainfes.test:8001"

	user1Body = "--b\r\nContent-Type: application/json\r\n\r\n" +
		`{"associateReplyToken":"mock-fes-reply-token","from":"user@standardsubdomainfes.test:8001",` +
		`"to":["Mr To <to@example.com>"],"cc":[],"bcc":["Mr Bcc <bcc@example.com>"]}` +
		"\r\n--b\r\nContent-Type: application/pgp-encrypted\r\n\r\n" +
		"-----BEGIN PGP MESSAGE-----\r\nwcBMA0taL/zmLZUBAQf/\r\n-----END PGP MESSAGE-----\r\n--b--\r\n"

	user2Body = "--b\r\nContent-Type: application/json\r\n\r\n" +
		`{"associateReplyToken":"mock-fes-reply-token","from":"user2@standardsubdomainfes.test:8001",` +
		`"to":["sender@domain.com","flowcrypt.compatibility@gmail.com","to@example.com","mock.only.pubkey@flowcrypt.com"],"cc":[],"bcc":[]}` +
		"\r\n--b\r\nContent-Type: application/pgp-encrypted\r\n\r\n" +
		"-----BEGIN PGP MESSAGE-----\r\nwcBMA0taL/zmLZUBAQf/\r\n-----END PGP MESSAGE-----\r\n--b--\r\n"

	gatewayBody = `{"emailGatewayMessageId":"<abc123@standardsubdomainfes.test:8001>"}`
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *ledger.Ledger) {
	t.Helper()
	l := ledger.New()
	d, err := NewDispatcher(DefaultSettings(), l, NewJWTIdentityParser(), discardLogger())
	require.NoError(t, err)
	return d, l
}

func mockToken(t *testing.T, email string) string {
	t.Helper()
	tok, err := NewMockJWT(email)
	require.NoError(t, err)
	return tok
}

func newRequest(method, host, path string, token string, body string) *Request {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return &Request{
		Method: method,
		Host:   host,
		Path:   path,
		Header: h,
		Body:   []byte(body),
	}
}

// requireAssertionFailure runs fn and requires that it fails a body
// assertion through PanicT.
func requireAssertionFailure(t *testing.T, fn func()) *AssertionError {
	t.Helper()
	var got *AssertionError
	func() {
		defer func() {
			got, _ = recover().(*AssertionError)
		}()
		fn()
	}()
	require.NotNil(t, got, "expected a body assertion failure")
	return got
}
