package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/velsec/sharescout/internal/aggregate"
	"github.com/velsec/sharescout/internal/probe"
)

// The JSON layout mirrors the historical export format of this tool family:
// a map of host to share entries, each entry nesting the computer identity,
// the share metadata, and the decoded type.
type jsonComputer struct {
	FQDN string `json:"fqdn"`
	IP   string `json:"ip"`
}

type jsonShareType struct {
	Value uint32   `json:"stype_value"`
	Flags []string `json:"stype_flags"`
}

type jsonShare struct {
	Name    string        `json:"name"`
	Comment string        `json:"comment"`
	Hidden  bool          `json:"hidden"`
	UNCPath string        `json:"uncpath"`
	Type    jsonShareType `json:"type"`
}

type jsonEntry struct {
	Computer jsonComputer `json:"computer"`
	Share    jsonShare    `json:"share"`
}

// WriteJSON pretty-prints the full result set to path.
func WriteJSON(path string, rs *aggregate.ResultSet) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	out := make(map[string][]jsonEntry, len(rs.Hosts()))
	for _, host := range rs.Hosts() {
		for _, rec := range rs.Shares(host) {
			out[host] = append(out[host], toJSONEntry(rec))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

func toJSONEntry(rec probe.ShareRecord) jsonEntry {
	return jsonEntry{
		Computer: jsonComputer{FQDN: rec.HostFQDN, IP: rec.HostIP},
		Share: jsonShare{
			Name:    rec.Name,
			Comment: rec.Comment,
			Hidden:  rec.Hidden,
			UNCPath: rec.UNCPath,
			Type:    jsonShareType{Value: rec.TypeRaw, Flags: rec.TypeFlags},
		},
	}
}
