package directory

import (
	"crypto/tls"
	"fmt"
	"os"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/go-ldap/ldap/v3/gssapi"
	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/iana/flags"
	log "github.com/sirupsen/logrus"

	"github.com/velsec/sharescout/internal/credentials"
)

// Client wraps an authenticated LDAP connection to a domain controller.
type Client struct {
	conn ldapConn
	host string

	// PageSize for paged searches. Defaults to 1000 entries per page.
	PageSize uint32
}

// ldapConn is the subset of *ldap.Conn the enumerator needs; tests substitute
// a fake that serves canned pages.
type ldapConn interface {
	Search(*ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// Connect dials the domain controller over LDAP, or LDAPS when useLDAPS is
// set. Certificate verification is disabled: domain controllers routinely
// carry self-signed or internal-CA certificates.
func Connect(host string, useLDAPS bool) (*Client, error) {
	var conn *ldap.Conn
	var err error
	if useLDAPS {
		url := fmt.Sprintf("ldaps://%s:636", host)
		conn, err = ldap.DialURL(url, ldap.DialWithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
	} else {
		conn, err = ldap.DialURL(fmt.Sprintf("ldap://%s:389", host))
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to directory server %s: %w", host, err)
	}
	log.Debugf("connected to directory server %s (ldaps=%v)", host, useLDAPS)
	return &Client{conn: conn, host: host, PageSize: 1000}, nil
}

// Bind authenticates the connection with the supplied credentials. NTLM
// covers the password and pass-the-hash variants; Kerberos binds use SASL
// GSSAPI backed by gokrb5.
func (c *Client) Bind(creds *credentials.Credentials) error {
	conn, ok := c.conn.(*ldap.Conn)
	if !ok {
		return fmt.Errorf("directory: bind requires a live connection")
	}

	if creds.Kerberos {
		return c.bindGSSAPI(conn, creds)
	}

	switch creds.Kind() {
	case credentials.KindNTLMHash:
		if err := conn.NTLMBindWithHash(creds.Domain, creds.Username, creds.NTHashHex()); err != nil {
			return fmt.Errorf("NTLM pass-the-hash bind failed: %w", err)
		}
	default:
		if err := conn.NTLMBind(creds.Domain, creds.Username, creds.Password()); err != nil {
			return fmt.Errorf("NTLM bind failed: %w", err)
		}
	}
	log.Debugf("bound to %s as %s", c.host, creds)
	return nil
}

func (c *Client) bindGSSAPI(conn *ldap.Conn, creds *credentials.Credentials) error {
	confPath, err := writeKrb5Conf(creds.Domain, c.host)
	if err != nil {
		return err
	}
	defer os.Remove(confPath)

	var gssClient *gssapi.Client
	switch creds.Kind() {
	case credentials.KindPassword:
		gssClient, err = gssapi.NewClientWithPassword(
			creds.Username,
			strings.ToUpper(creds.Domain),
			creds.Password(),
			confPath,
			client.DisablePAFXFAST(true),
		)
	case credentials.KindCCache:
		gssClient, err = gssapi.NewClientFromCCache(
			creds.CCachePath(),
			confPath,
			client.DisablePAFXFAST(true),
		)
	default:
		// gokrb5 cannot request a TGT from an NT hash or a raw AES key;
		// those secrets still work for the SMB sessions. Point the
		// operator at a ticket cache for the directory bind.
		return fmt.Errorf("kerberos directory bind with a %s requires a ticket cache (set KRB5CCNAME)", creds.Kind())
	}
	if err != nil {
		return fmt.Errorf("initializing kerberos client: %w", err)
	}

	err = conn.GSSAPIBindRequestWithAPOptions(
		gssClient,
		&ldap.GSSAPIBindRequest{
			ServicePrincipalName: "ldap/" + c.host,
			AuthZID:              "",
		},
		[]int{flags.APOptionMutualRequired},
	)
	if err != nil {
		return fmt.Errorf("GSSAPI bind failed: %w", err)
	}
	log.Debugf("GSSAPI bind to %s as %s succeeded", c.host, creds)
	return nil
}

// writeKrb5Conf synthesizes a minimal krb5 configuration pointing the realm
// at the target KDC, so operators do not need a system-wide /etc/krb5.conf.
func writeKrb5Conf(realm, kdc string) (string, error) {
	realm = strings.ToUpper(realm)
	conf := fmt.Sprintf(`[libdefaults]
default_realm = %s
dns_lookup_realm = false
dns_lookup_kdc = false

[realms]
%s = {
	kdc = %s:88
}
`, realm, realm, kdc)

	f, err := os.CreateTemp("", "sharescout-krb5-*.conf")
	if err != nil {
		return "", fmt.Errorf("writing krb5 config: %w", err)
	}
	if _, err := f.WriteString(conf); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing krb5 config: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// Close tears down the LDAP connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
