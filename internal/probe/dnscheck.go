package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DNS classes attached to transport faults.
const (
	DNSResolves    = "RESOLVES"
	DNSNoARecord   = "NO_A_RECORD"
	DNSNXDomain    = "NXDOMAIN"
	DNSServfail    = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName = "INVALID_NAME"
)

type DNSStatus struct {
	Host          string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	Class         string
	ResolverError string
}

var dnsTimeout = 3 * time.Second

// ClassifyHost explains why a vendor host may be unreachable. It is only
// consulted after a transport fault, to enrich the log line.
func ClassifyHost(ctx context.Context, host string) DNSStatus {
	s := DNSStatus{Host: strings.TrimSpace(host)}
	if s.Host == "" || strings.Contains(s.Host, "://") {
		s.Class = DNSInvalidName
		return s
	}
	if ip := net.ParseIP(s.Host); ip != nil {
		s.IPs = []net.IP{ip}
		s.Class = DNSResolves
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	r := &net.Resolver{} // OS resolver

	ips, err := r.LookupIP(ctx, "ip", s.Host)
	if err == nil && len(ips) > 0 {
		s.IPs = ips
		s.Class = DNSResolves
		return s
	}
	if err != nil {
		s.ResolverError = err.Error()
	}

	if cname, cerr := r.LookupCNAME(ctx, s.Host); cerr == nil && !strings.EqualFold(cname, s.Host+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}
	if ns, nerr := r.LookupNS(ctx, s.Host); nerr == nil {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
	}

	s.Class = classify(err, len(s.Nameservers) > 0)
	return s
}

// classify maps a failed address lookup to a DNS class. Nameservers for a
// host that does not exist mean the zone is there but the record is not.
func classify(lookupErr error, hasNS bool) string {
	class := DNSNXDomain
	if lookupErr != nil {
		class = DNSServfail
		var de *net.DNSError
		if errors.As(lookupErr, &de) && de.IsNotFound {
			class = DNSNXDomain
		}
	}
	if hasNS && class == DNSNXDomain {
		class = DNSNoARecord
	}
	return class
}
