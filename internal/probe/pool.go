package probe

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// RunPool fans the hosts out across a bounded worker pool and returns a
// channel carrying every discovered share. The pool is sized to
// min(threads, len(hosts)); each unit of work is one host's full probe.
// A failed host is logged at debug level and skipped; it never stops the
// others. The channel is closed once all hosts are done.
func RunPool(ctx context.Context, p Prober, hosts []string, threads int) <-chan ShareRecord {
	if threads > len(hosts) {
		threads = len(hosts)
	}
	if threads < 1 {
		threads = 1
	}

	hostsCh := make(chan string, threads)
	records := make(chan ShareRecord, threads*2)

	var wg sync.WaitGroup

	// Producer: feed hosts into the channel.
	go func() {
		defer close(hostsCh)
		for _, host := range hosts {
			select {
			case hostsCh <- host:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Workers: one host probe at a time, shares forwarded per record so the
	// single consumer does the bookkeeping.
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range hostsCh {
				recs, err := p.Probe(host)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Debugf("skipping %s: %v", host, err)
					continue
				}
				for _, rec := range recs {
					select {
					case records <- rec:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Closer: when all workers finish, close the records channel.
	go func() {
		wg.Wait()
		close(records)
	}()

	return records
}
