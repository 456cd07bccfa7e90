package credentials

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// EmptyLMHash is the LM hash of the empty password, used as filler when the
// operator supplies only the NT half of a [LMHASH:]NTHASH pair.
const EmptyLMHash = "aad3b435b51404eeaad3b435b51404ee"

// Kind identifies which secret variant is active in a Credentials value.
type Kind int

const (
	KindPassword Kind = iota
	KindNTLMHash
	KindCCache
	KindAESKey
)

func (k Kind) String() string {
	switch k {
	case KindPassword:
		return "password"
	case KindNTLMHash:
		return "ntlm-hash"
	case KindCCache:
		return "ccache"
	case KindAESKey:
		return "aes-key"
	default:
		return "unknown"
	}
}

// Credentials holds the identity and exactly one secret variant, decided at
// parse time. Accessors for inactive variants return zero values.
type Credentials struct {
	Domain   string
	Username string
	Kerberos bool // authenticate via Kerberos instead of NTLM

	kind       Kind
	password   string
	lmHash     []byte
	ntHash     []byte
	aesKey     []byte
	ccachePath string
}

// Input carries the raw credential flags as given on the command line.
type Input struct {
	Domain   string
	Username string
	Password string
	Hashes   string // [LMHASH:]NTHASH, hex
	AESKey   string // hex, 16 or 32 bytes
	Kerberos bool
	NoPass   bool
}

// Parse validates the raw flag input and returns a Credentials value with a
// single active secret variant. Secrets are mutually exclusive.
func Parse(in Input) (*Credentials, error) {
	c := &Credentials{
		Domain:   in.Domain,
		Username: in.Username,
		Kerberos: in.Kerberos,
	}

	given := 0
	if in.Password != "" {
		given++
	}
	if in.Hashes != "" {
		given++
	}
	if in.AESKey != "" {
		given++
	}
	if given > 1 {
		return nil, fmt.Errorf("credentials: --password, --hashes and --aes-key are mutually exclusive")
	}

	switch {
	case in.Hashes != "":
		lm, nt, err := parseHashes(in.Hashes)
		if err != nil {
			return nil, err
		}
		c.kind = KindNTLMHash
		c.lmHash = lm
		c.ntHash = nt
	case in.AESKey != "":
		if !in.Kerberos {
			return nil, fmt.Errorf("credentials: --aes-key requires --kerberos")
		}
		key, err := hex.DecodeString(in.AESKey)
		if err != nil {
			return nil, fmt.Errorf("credentials: decoding AES key: %w", err)
		}
		if len(key) != 16 && len(key) != 32 {
			return nil, fmt.Errorf("credentials: AES key must be 128 or 256 bits, got %d bits", len(key)*8)
		}
		c.kind = KindAESKey
		c.aesKey = key
	case in.Password != "":
		c.kind = KindPassword
		c.password = in.Password
	case in.Kerberos:
		// No explicit secret: fall back to the ticket cache from the
		// standard environment variable.
		path := os.Getenv("KRB5CCNAME")
		if path == "" {
			return nil, fmt.Errorf("credentials: --kerberos without a secret requires KRB5CCNAME to be set")
		}
		c.kind = KindCCache
		c.ccachePath = strings.TrimPrefix(path, "FILE:")
	default:
		// Empty password is a valid NTLM secret (null-ish session).
		c.kind = KindPassword
	}

	return c, nil
}

func parseHashes(s string) (lm, nt []byte, err error) {
	lmHex := EmptyLMHash
	ntHex := s
	if idx := strings.Index(s, ":"); idx >= 0 {
		if idx > 0 {
			lmHex = s[:idx]
		}
		ntHex = s[idx+1:]
	}
	lm, err = hex.DecodeString(lmHex)
	if err != nil {
		return nil, nil, fmt.Errorf("credentials: decoding LM hash: %w", err)
	}
	nt, err = hex.DecodeString(ntHex)
	if err != nil {
		return nil, nil, fmt.Errorf("credentials: decoding NT hash: %w", err)
	}
	if len(nt) != 16 {
		return nil, nil, fmt.Errorf("credentials: NT hash must be 16 bytes, got %d", len(nt))
	}
	return lm, nt, nil
}

func (c *Credentials) Kind() Kind { return c.kind }

// Password returns the plaintext password, or "" if another variant is active.
func (c *Credentials) Password() string { return c.password }

// NTHash returns the raw NT hash bytes for pass-the-hash authentication.
func (c *Credentials) NTHash() []byte { return c.ntHash }

// NTHashHex returns the NT hash as a lowercase hex string.
func (c *Credentials) NTHashHex() string { return hex.EncodeToString(c.ntHash) }

// AESKey returns the raw Kerberos AES key bytes.
func (c *Credentials) AESKey() []byte { return c.aesKey }

// CCachePath returns the Kerberos ticket cache path from KRB5CCNAME.
func (c *Credentials) CCachePath() string { return c.ccachePath }

// String renders the identity with the secret redacted.
func (c *Credentials) String() string {
	return fmt.Sprintf("%s\\%s (%s)", c.Domain, c.Username, c.kind)
}
