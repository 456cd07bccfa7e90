package aggregate

import (
	"reflect"
	"testing"

	"github.com/velsec/sharescout/internal/probe"
)

func rec(host, share string) probe.ShareRecord {
	return probe.ShareRecord{HostFQDN: host, HostIP: "10.0.0.9", Name: share}
}

func TestResultSetOrdering(t *testing.T) {
	rs := New()
	rs.Add(rec("b.corp", "Public"))
	rs.Add(rec("a.corp", "Tools"))
	rs.Add(rec("b.corp", "Backups"))

	if got := rs.Hosts(); !reflect.DeepEqual(got, []string{"b.corp", "a.corp"}) {
		t.Errorf("Hosts() = %v, want insertion order", got)
	}

	shares := rs.Shares("b.corp")
	if len(shares) != 2 || shares[0].Name != "Public" || shares[1].Name != "Backups" {
		t.Errorf("per-host order not preserved: %+v", shares)
	}

	if rs.Len() != 3 {
		t.Errorf("Len() = %d, want 3", rs.Len())
	}
}

func TestResultSetUnknownHost(t *testing.T) {
	rs := New()
	if got := rs.Shares("nope.corp"); len(got) != 0 {
		t.Errorf("expected no shares for unknown host, got %v", got)
	}
	if len(rs.Hosts()) != 0 || rs.Len() != 0 {
		t.Error("empty set should report no hosts and zero shares")
	}
}
