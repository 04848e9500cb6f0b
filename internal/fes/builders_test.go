package fes

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessMessageFromUser(t *testing.T) {
	resp := ProcessMessageFromUser(t, DefaultSettings(), user1Body)

	assert.Equal(t, "http://fes.standardsubdomainfes.test:8001/message/FES-MOCK-MESSAGE-ID", resp.URL)
	assert.Equal(t, "FES-MOCK-EXTERNAL-ID", resp.ExternalID)
	assert.Equal(t, map[string]RecipientLink{
		"to@example.com": {
			URL:        "http://fes.standardsubdomainfes.test:8001/message/FES-MOCK-MESSAGE-FOR-TO@EXAMPLE.COM-ID",
			ExternalID: "FES-MOCK-EXTERNAL-FOR-TO@EXAMPLE.COM-ID",
		},
		"bcc@example.com": {
			URL:        "http://fes.standardsubdomainfes.test:8001/message/FES-MOCK-MESSAGE-FOR-BCC@EXAMPLE.COM-ID",
			ExternalID: "FES-MOCK-EXTERNAL-FOR-BCC@EXAMPLE.COM-ID",
		},
	}, resp.EmailToExternalIDAndURL)
}

func TestProcessMessageFromUser2(t *testing.T) {
	resp := ProcessMessageFromUser2(t, DefaultSettings(), user2Body)

	assert.Empty(t, resp.URL)
	assert.Empty(t, resp.ExternalID)
	assert.Equal(t, map[string]RecipientLink{
		"to@example.com": {
			URL:        "http://fes.standardsubdomainfes.test:8001/message/FES-MOCK-MESSAGE-FOR-TO@EXAMPLE.COM-ID",
			ExternalID: "FES-MOCK-EXTERNAL-FOR-TO@EXAMPLE.COM-ID",
		},
		"sender@domain.com": {
			URL:        "http://fes.standardsubdomainfes.test:8001/message/FES-MOCK-MESSAGE-FOR-SENDER@DOMAIN.COM-ID",
			ExternalID: "FES-MOCK-EXTERNAL-FOR-SENDER@DOMAIN.COM-ID",
		},
	}, resp.EmailToExternalIDAndURL)
}

func TestMessageResponse_JSONShape(t *testing.T) {
	t.Run("legacy fields present for user", func(t *testing.T) {
		raw, err := json.Marshal(ProcessMessageFromUser(t, DefaultSettings(), user1Body))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Contains(t, got, "url")
		assert.Contains(t, got, "externalId")
		assert.Contains(t, got, "emailToExternalIdAndUrl")
	})

	t.Run("legacy fields omitted for user2", func(t *testing.T) {
		raw, err := json.Marshal(ProcessMessageFromUser2(t, DefaultSettings(), user2Body))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.NotContains(t, got, "url")
		assert.NotContains(t, got, "externalId")
		assert.Len(t, got["emailToExternalIdAndUrl"], 2)
	})
}

func TestBuilders_Deterministic(t *testing.T) {
	a := ProcessMessageFromUser(t, DefaultSettings(), user1Body)
	b := ProcessMessageFromUser(t, DefaultSettings(), user1Body)
	assert.Equal(t, a, b)
}

func TestBuilders_AssertBodyShape(t *testing.T) {
	tests := []struct {
		name   string
		build  func(t *PanicT, body string)
		body   string
		remove string
	}{
		{"user missing pgp armor", buildUser, user1Body, "-----BEGIN PGP MESSAGE-----"},
		{"user missing reply token", buildUser, user1Body, `"associateReplyToken":"mock-fes-reply-token"`},
		{"user wrong to", buildUser, user1Body, `"to":["Mr To <to@example.com>"]`},
		{"user wrong cc", buildUser, user1Body, `"cc":[]`},
		{"user wrong bcc", buildUser, user1Body, `"bcc":["Mr Bcc <bcc@example.com>"]`},
		{"user2 missing pgp armor", buildUser2, user2Body, "-----BEGIN PGP MESSAGE-----"},
		{"user2 wrong bcc", buildUser2, user2Body, `"bcc":[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Replace(tt.body, tt.remove, "", 1)
			failure := requireAssertionFailure(t, func() { tt.build(&PanicT{}, body) })
			assert.NotEmpty(t, failure.Messages)
			assert.Contains(t, failure.Error(), "mock assertion failed")
		})
	}
}

func buildUser(t *PanicT, body string)  { ProcessMessageFromUser(t, DefaultSettings(), body) }
func buildUser2(t *PanicT, body string) { ProcessMessageFromUser2(t, DefaultSettings(), body) }

func TestIssuedExternalIDs(t *testing.T) {
	assert.Equal(t, []string{
		"FES-MOCK-EXTERNAL-ID",
		"FES-MOCK-EXTERNAL-FOR-TO@EXAMPLE.COM-ID",
		"FES-MOCK-EXTERNAL-FOR-BCC@EXAMPLE.COM-ID",
		"FES-MOCK-EXTERNAL-FOR-SENDER@DOMAIN.COM-ID",
	}, issuedExternalIDs(DefaultSettings()))
}
