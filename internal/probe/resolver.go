package probe

import (
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolver maps a hostname to a single IPv4 address.
type Resolver interface {
	LookupHost(name string) (string, error)
}

// dcResolver asks the domain controller's DNS service directly instead of the
// system resolver: machine accounts frequently only resolve inside the
// domain's own zones.
type dcResolver struct {
	server string // host:port of the DC's DNS service
	client *dns.Client
}

// NewDCResolver returns a Resolver that queries the DNS service on the given
// domain controller address.
func NewDCResolver(dcAddr string, timeout time.Duration) Resolver {
	return &dcResolver{
		server: net.JoinHostPort(dcAddr, "53"),
		client: &dns.Client{Timeout: timeout},
	}
}

func (r *dcResolver) LookupHost(name string) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeA)
	msg.RecursionDesired = true

	resp, _, err := r.client.Exchange(msg, r.server)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", name, r.server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("resolving %s: %s", name, dns.RcodeToString[resp.Rcode])
	}
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", fmt.Errorf("resolving %s: no A record", name)
}
