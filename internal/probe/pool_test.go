package probe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// fakeProber serves two canned shares per host and fails for hosts in the
// fail set. It also tracks peak concurrency.
type fakeProber struct {
	fail map[string]bool

	mu     sync.Mutex
	active int32
	peak   int32
	probed map[string]int
}

func newFakeProber(fail ...string) *fakeProber {
	f := &fakeProber{fail: make(map[string]bool), probed: make(map[string]int)}
	for _, h := range fail {
		f.fail[h] = true
	}
	return f
}

func (f *fakeProber) Probe(host string) ([]ShareRecord, error) {
	cur := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, cur) {
			break
		}
	}

	f.mu.Lock()
	f.probed[host]++
	f.mu.Unlock()

	if f.fail[host] {
		return nil, fmt.Errorf("forced failure for %s", host)
	}
	return []ShareRecord{
		newShareRecord(host, "10.0.0.1", "Public", "", 0),
		newShareRecord(host, "10.0.0.1", "ADMIN$", "Remote Admin", 0x80000000),
	}, nil
}

func TestRunPoolCompletesAllHosts(t *testing.T) {
	const k, m = 9, 3
	var hosts []string
	for i := 0; i < k; i++ {
		hosts = append(hosts, fmt.Sprintf("ws%02d.corp.local", i))
	}
	prober := newFakeProber()

	byHost := make(map[string]int)
	for rec := range RunPool(context.Background(), prober, hosts, m) {
		byHost[rec.HostFQDN]++
	}

	if len(byHost) != k {
		t.Fatalf("got results for %d hosts, want %d", len(byHost), k)
	}
	for host, n := range byHost {
		if n != 2 {
			t.Errorf("host %s produced %d shares, want 2", host, n)
		}
	}
	for _, host := range hosts {
		if prober.probed[host] != 1 {
			t.Errorf("host %s probed %d times, want exactly once", host, prober.probed[host])
		}
	}
	if prober.peak > m {
		t.Errorf("peak concurrency %d exceeded pool size %d", prober.peak, m)
	}
}

func TestRunPoolIsolatesFailures(t *testing.T) {
	hosts := []string{"a.corp", "b.corp", "c.corp", "d.corp"}
	prober := newFakeProber("b.corp")

	byHost := make(map[string]bool)
	for rec := range RunPool(context.Background(), prober, hosts, 2) {
		byHost[rec.HostFQDN] = true
	}

	if byHost["b.corp"] {
		t.Error("failed host should not contribute records")
	}
	for _, host := range []string{"a.corp", "c.corp", "d.corp"} {
		if !byHost[host] {
			t.Errorf("host %s missing from results despite sibling failure", host)
		}
	}
}

func TestRunPoolMoreThreadsThanHosts(t *testing.T) {
	hosts := []string{"only.corp"}
	prober := newFakeProber()

	count := 0
	for range RunPool(context.Background(), prober, hosts, 20) {
		count++
	}
	if count != 2 {
		t.Errorf("got %d records, want 2", count)
	}
	if prober.peak > 1 {
		t.Errorf("pool should have been clamped to 1 worker, peak was %d", prober.peak)
	}
}
