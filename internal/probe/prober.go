package probe

import (
	"fmt"
	"strings"
	"time"

	"github.com/jfjallid/go-smb/smb"
	"github.com/jfjallid/go-smb/smb/dcerpc"
	"github.com/jfjallid/go-smb/smb/dcerpc/mssrvs"
	"github.com/jfjallid/go-smb/spnego"
	log "github.com/sirupsen/logrus"

	"github.com/velsec/sharescout/internal/credentials"
)

// Prober lists the shares of a single host. The pool accepts any
// implementation so failure handling can be tested without a network.
type Prober interface {
	Probe(host string) ([]ShareRecord, error)
}

// SMBProber resolves a host through the domain controller and enumerates its
// shares over an authenticated SMB session via the srvsvc pipe.
type SMBProber struct {
	Creds       *credentials.Credentials
	DCIP        string
	Resolver    Resolver
	Port        int
	DialTimeout time.Duration
}

// NewSMBProber wires a prober against the given domain controller.
func NewSMBProber(creds *credentials.Credentials, dcIP string, dialTimeout time.Duration) *SMBProber {
	return &SMBProber{
		Creds:       creds,
		DCIP:        dcIP,
		Resolver:    NewDCResolver(dcIP, dialTimeout),
		Port:        445,
		DialTimeout: dialTimeout,
	}
}

// Probe resolves host, authenticates, and returns one ShareRecord per share
// in server order. Every failure is returned to the pool, which logs it at
// debug level and moves on; nothing here aborts sibling probes.
func (p *SMBProber) Probe(host string) ([]ShareRecord, error) {
	ip, err := p.Resolver.LookupHost(host)
	if err != nil {
		return nil, err
	}

	session, err := smb.NewConnection(p.options(host, ip))
	if err != nil {
		return nil, fmt.Errorf("smb connection to %s (%s): %w", host, ip, err)
	}
	defer session.Close()

	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("smb authentication to %s rejected", host)
	}
	log.Debugf("authenticated smb session to %s (%s)", host, ip)

	netShares, err := enumShares(session, host)
	if err != nil {
		return nil, err
	}

	records := make([]ShareRecord, 0, len(netShares))
	for _, ns := range netShares {
		name := strings.TrimRight(ns.Name, "\x00")
		comment := strings.TrimRight(ns.Comment, "\x00")
		records = append(records, newShareRecord(host, ip, name, comment, ns.TypeId))
	}
	return records, nil
}

// options builds the session options with the initiator matching the active
// credential variant: NTLM for password/hash, SPNEGO KRB5 when Kerberos is
// requested. The KRB5 initiator reads KRB5CCNAME itself when no secret is
// set, which covers the ticket-cache variant.
func (p *SMBProber) options(host, ip string) smb.Options {
	opts := smb.Options{
		Host:        ip,
		Port:        p.Port,
		DialTimeout: p.DialTimeout,
	}
	if p.Creds.Kerberos {
		opts.Initiator = &spnego.KRB5Initiator{
			User:     p.Creds.Username,
			Password: p.Creds.Password(),
			Domain:   p.Creds.Domain,
			Hash:     p.Creds.NTHash(),
			AESKey:   p.Creds.AESKey(),
			SPN:      "cifs/" + host,
			DCIP:     p.DCIP,
		}
	} else {
		opts.Initiator = &spnego.NTLMInitiator{
			User:     p.Creds.Username,
			Password: p.Creds.Password(),
			Hash:     p.Creds.NTHash(),
			Domain:   p.Creds.Domain,
		}
	}
	return opts
}

// enumShares performs the srvsvc NetShareEnumAll dance over IPC$.
func enumShares(session *smb.Connection, host string) ([]mssrvs.NetShare, error) {
	share := "IPC$"
	if err := session.TreeConnect(share); err != nil {
		return nil, fmt.Errorf("tree connect to IPC$ on %s: %w", host, err)
	}
	defer session.TreeDisconnect(share)

	f, err := session.OpenFile(share, "srvsvc")
	if err != nil {
		return nil, fmt.Errorf("opening srvsvc pipe on %s: %w", host, err)
	}
	defer f.CloseFile()

	bind, err := dcerpc.Bind(f, mssrvs.MSRPCUuidSrvSvc, mssrvs.MSRPCSrvSvcMajorVersion, mssrvs.MSRPCSrvSvcMinorVersion, dcerpc.MSRPCUuidNdr)
	if err != nil {
		return nil, fmt.Errorf("binding srvsvc on %s: %w", host, err)
	}

	result, err := mssrvs.NewRPCCon(bind).NetShareEnumAll(host)
	if err != nil {
		return nil, fmt.Errorf("NetShareEnumAll on %s: %w", host, err)
	}
	return result, nil
}
