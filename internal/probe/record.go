package probe

import "fmt"

// ShareRecord is one share discovered on one host. Immutable once created.
type ShareRecord struct {
	HostFQDN string
	HostIP   string

	Name    string
	Comment string
	Hidden  bool
	UNCPath string

	// TypeRaw is the share's shi1_type value as returned by the server;
	// TypeFlags is its decoded form (see DecodeShareType).
	TypeRaw   uint32
	TypeFlags []string
}

// newShareRecord derives the per-share fields the exporters rely on.
func newShareRecord(fqdn, ip, name, comment string, stype uint32) ShareRecord {
	return ShareRecord{
		HostFQDN:  fqdn,
		HostIP:    ip,
		Name:      name,
		Comment:   comment,
		Hidden:    IsHidden(name),
		UNCPath:   fmt.Sprintf("\\\\%s\\%s\\", ip, name),
		TypeRaw:   stype,
		TypeFlags: DecodeShareType(stype),
	}
}
