package fes

import (
	"strings"

	"github.com/stretchr/testify/require"
)

// LegacyExternalID is the message-level external id older clients read from
// the top of the submission response.
const LegacyExternalID = "FES-MOCK-EXTERNAL-ID"

// RecipientLink is the web portal link and tracking id handed out for one
// recipient.
type RecipientLink struct {
	URL        string `json:"url"`
	ExternalID string `json:"externalId"`
}

// MessageResponse is the body returned for an accepted message submission.
// URL and ExternalID are only set for senders whose clients still read the
// legacy single-link shape.
type MessageResponse struct {
	URL                     string                   `json:"url,omitempty"`
	ExternalID              string                   `json:"externalId,omitempty"`
	EmailToExternalIDAndURL map[string]RecipientLink `json:"emailToExternalIdAndUrl"`
}

// messageProfile captures what a canned sender is expected to submit and
// which recipients the mock answers for.
type messageProfile struct {
	senderMarker string
	to           string
	cc           string
	bcc          string
	recipients   []string
	legacy       bool
}

func userProfile(s Settings) messageProfile {
	return messageProfile{
		senderMarker: `"from":"user@` + s.OrgDomain + `"`,
		to:           `"to":["Mr To <to@example.com>"]`,
		cc:           `"cc":[]`,
		bcc:          `"bcc":["Mr Bcc <bcc@example.com>"]`,
		recipients:   []string{"to@example.com", "bcc@example.com"},
		legacy:       true,
	}
}

func user2Profile(s Settings) messageProfile {
	return messageProfile{
		senderMarker: `"from":"user2@` + s.OrgDomain + `"`,
		to:           `"to":["sender@domain.com","flowcrypt.compatibility@gmail.com","to@example.com","mock.only.pubkey@flowcrypt.com"]`,
		cc:           `"cc":[]`,
		bcc:          `"bcc":[]`,
		recipients:   []string{"to@example.com", "sender@domain.com"},
	}
}

// ExternalIDFor returns the tracking id the mock hands out for a recipient.
func ExternalIDFor(email string) string {
	return "FES-MOCK-EXTERNAL-FOR-" + strings.ToUpper(email) + "-ID"
}

func messageURLFor(host, email string) string {
	return "http://" + host + "/message/FES-MOCK-MESSAGE-FOR-" + strings.ToUpper(email) + "-ID"
}

// ProcessMessageFromUser validates a submission from user@<org domain> and
// returns links for its to and bcc recipients plus the legacy top-level link.
func ProcessMessageFromUser(t require.TestingT, s Settings, body string) *MessageResponse {
	return buildMessageResponse(t, s, userProfile(s), body)
}

// ProcessMessageFromUser2 validates a submission from user2@<org domain> and
// returns links for two of its recipients.
func ProcessMessageFromUser2(t require.TestingT, s Settings, body string) *MessageResponse {
	return buildMessageResponse(t, s, user2Profile(s), body)
}

func buildMessageResponse(t require.TestingT, s Settings, p messageProfile, body string) *MessageResponse {
	require.Contains(t, body, pgpMessageMarker)
	require.Contains(t, body, `"associateReplyToken":"`+ReplyToken+`"`)
	require.Contains(t, body, p.to)
	require.Contains(t, body, p.cc)
	require.Contains(t, body, p.bcc)

	host := s.StandardHost()
	resp := &MessageResponse{
		EmailToExternalIDAndURL: make(map[string]RecipientLink, len(p.recipients)),
	}
	if p.legacy {
		resp.URL = "http://" + host + "/message/FES-MOCK-MESSAGE-ID"
		resp.ExternalID = LegacyExternalID
	}
	for _, email := range p.recipients {
		resp.EmailToExternalIDAndURL[email] = RecipientLink{
			URL:        messageURLFor(host, email),
			ExternalID: ExternalIDFor(email),
		}
	}
	return resp
}

// issuedExternalIDs lists every external id the builders can hand out, the
// legacy one first, without duplicates.
func issuedExternalIDs(s Settings) []string {
	ids := []string{LegacyExternalID}
	seen := map[string]bool{LegacyExternalID: true}
	for _, p := range []messageProfile{userProfile(s), user2Profile(s)} {
		for _, email := range p.recipients {
			id := ExternalIDFor(email)
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
