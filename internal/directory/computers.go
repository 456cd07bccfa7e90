package directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
	log "github.com/sirupsen/logrus"
)

// ComputerRecord is one machine account from the directory. DN is the stable
// de-duplication key; DNSHostName may be empty for stale accounts.
type ComputerRecord struct {
	DN             string
	DNSHostName    string
	SAMAccountName string
}

const computerFilter = "(objectCategory=computer)"

// DefaultNamingContext reads the domain's default naming context from the
// RootDSE of the connected server.
func (c *Client) DefaultNamingContext() (string, error) {
	req := ldap.NewSearchRequest(
		"", // RootDSE
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		0, 0, false,
		"(objectClass=*)",
		[]string{"defaultNamingContext"},
		nil,
	)
	result, err := c.conn.Search(req)
	if err != nil {
		return "", fmt.Errorf("reading RootDSE: %w", err)
	}
	if len(result.Entries) == 0 {
		return "", fmt.Errorf("RootDSE returned no entries")
	}
	dn := result.Entries[0].GetAttributeValue("defaultNamingContext")
	if dn == "" {
		return "", fmt.Errorf("defaultNamingContext not present in RootDSE")
	}
	return dn, nil
}

// Computers returns every computer object under baseDN, following server-side
// paging. Entries are de-duplicated on DN; the first occurrence wins.
func (c *Client) Computers(baseDN string) ([]ComputerRecord, error) {
	req := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		computerFilter,
		[]string{"dNSHostName", "sAMAccountName"},
		nil,
	)

	var records []ComputerRecord
	seen := make(map[string]bool)

	err := searchPaged(c.conn, req, c.PageSize, func(entries []*ldap.Entry) error {
		for _, entry := range entries {
			if seen[entry.DN] {
				continue
			}
			seen[entry.DN] = true
			records = append(records, ComputerRecord{
				DN:             entry.DN,
				DNSHostName:    entry.GetAttributeValue("dNSHostName"),
				SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
			})
		}
		log.Debugf("directory page returned %d entries (%d total)", len(entries), len(records))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
