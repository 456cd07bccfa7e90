package aggregate

import (
	"sync"

	"github.com/velsec/sharescout/internal/probe"
)

// ResultSet maps each host to its discovered shares. Hosts keep the order in
// which their first share arrived; shares keep the order the server returned
// them. The set only grows; exports read it after probing completes.
type ResultSet struct {
	mu     sync.Mutex
	order  []string
	shares map[string][]probe.ShareRecord
}

// New returns an empty ResultSet.
func New() *ResultSet {
	return &ResultSet{shares: make(map[string][]probe.ShareRecord)}
}

// Add appends one share under its host.
func (r *ResultSet) Add(rec probe.ShareRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shares[rec.HostFQDN]; !ok {
		r.order = append(r.order, rec.HostFQDN)
	}
	r.shares[rec.HostFQDN] = append(r.shares[rec.HostFQDN], rec)
}

// Hosts returns the hosts in insertion order.
func (r *ResultSet) Hosts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	hosts := make([]string, len(r.order))
	copy(hosts, r.order)
	return hosts
}

// Shares returns the records for one host in arrival order.
func (r *ResultSet) Shares(host string) []probe.ShareRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs := make([]probe.ShareRecord, len(r.shares[host]))
	copy(recs, r.shares[host])
	return recs
}

// Len returns the total number of shares across all hosts.
func (r *ResultSet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, recs := range r.shares {
		n += len(recs)
	}
	return n
}
