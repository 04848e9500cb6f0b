package fes

import "net"

const (
	// DefaultOrgDomain is the organisation domain the standard FES instance
	// serves. The FES host itself lives on the "fes." subdomain.
	DefaultOrgDomain = "standardsubdomainfes.test:8001"

	// ReplyToken is the access token handed out by the new-reply-token route.
	ReplyToken = "mock-fes-reply-token"

	pgpMessageMarker = "-----BEGIN PGP MESSAGE-----"
)

// DefaultAbsentHosts are FES hosts on which service discovery answers 404,
// letting enterprise clients exercise the "no FES deployed" path.
var DefaultAbsentHosts = []string{
	"fes.localhost:8001",
	"fes.google.mock.flowcryptlocal.test:8001",
}

// Settings describes which hosts the mock answers for.
type Settings struct {
	OrgDomain   string
	AbsentHosts []string
}

// DefaultSettings returns the settings used by the end-to-end suite.
func DefaultSettings() Settings {
	return Settings{
		OrgDomain:   DefaultOrgDomain,
		AbsentHosts: append([]string(nil), DefaultAbsentHosts...),
	}
}

// StandardHost is the host (with port) of the emulated FES instance.
func (s Settings) StandardHost() string {
	return "fes." + s.OrgDomain
}

// OrgID is the organisation domain without its port.
func (s Settings) OrgID() string {
	if host, _, err := net.SplitHostPort(s.OrgDomain); err == nil {
		return host
	}
	return s.OrgDomain
}

func (s Settings) isAbsentHost(host string) bool {
	for _, h := range s.AbsentHosts {
		if h == host {
			return true
		}
	}
	return false
}
