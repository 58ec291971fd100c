// Package resolve maps a ping target to a SCION address. Literal
// addresses pass through; host names are looked up through their
// "scion=<ISD-AS>,<IP>" TXT record.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const txtPrefix = "scion="

var (
	// ISD-AS,host where AS is either decimal (BGP-style) or three
	// colon-separated hex groups, and host is an IPv4 or bracketed IPv6.
	scionAddrRegex = regexp.MustCompile(`^\d+-(\d+|[0-9a-fA-F]{1,4}:[0-9a-fA-F]{1,4}:[0-9a-fA-F]{1,4}),(\d{1,3}(\.\d{1,3}){3}|\[[0-9a-fA-F:.]+\])$`)
	hostRegex      = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*\.?$`)

	ErrInvalidTarget = errors.New("invalid ping target")
	ErrNoSCIONRecord = errors.New("no scion TXT record")
)

// IsSCIONAddress reports whether s is a literal ISD-AS,IP address safe to
// place on a command line.
func IsSCIONAddress(s string) bool {
	return scionAddrRegex.MatchString(s)
}

// Resolver looks up SCION addresses over DNS.
type Resolver struct {
	client *dns.Client
	server string
}

func NewResolver(server string, timeout time.Duration) *Resolver {
	return &Resolver{
		client: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
		server: server,
	}
}

// Resolve returns target unchanged when it is already a SCION address,
// otherwise queries TXT records for it.
func (r *Resolver) Resolve(ctx context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	if IsSCIONAddress(target) {
		return target, nil
	}
	if !hostRegex.MatchString(target) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(target), dns.TypeTXT)

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return "", fmt.Errorf("TXT lookup for %s: %w", target, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("TXT lookup for %s: %s", target, dns.RcodeToString[resp.Rcode])
	}
	return AddressFromTXT(resp.Answer)
}

// AddressFromTXT returns the first valid scion= value among the TXT
// records in answers.
func AddressFromTXT(answers []dns.RR) (string, error) {
	for _, rr := range answers {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		for _, s := range txt.Txt {
			if !strings.HasPrefix(s, txtPrefix) {
				continue
			}
			addr := strings.TrimSpace(strings.TrimPrefix(s, txtPrefix))
			if IsSCIONAddress(addr) {
				return addr, nil
			}
		}
	}
	return "", ErrNoSCIONRecord
}
