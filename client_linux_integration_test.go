//go:build linux
// +build linux

package wext_test

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/mdlayher/wext"
	"golang.org/x/sys/unix"
)

func TestIntegrationLinuxConcurrent(t *testing.T) {
	const (
		workers    = 4
		iterations = 1000
	)

	c := testClient(t)
	ifis, err := c.Interfaces()
	if err != nil {
		t.Fatalf("failed to retrieve interfaces: %v", err)
	}
	if len(ifis) == 0 {
		t.Skip("skipping, found no WiFi interfaces")
	}

	var names []string
	for _, ifi := range ifis {
		if ifi.Name == "" {
			continue
		}

		names = append(names, ifi.Name)
	}

	t.Logf("workers: %d, iterations: %d, interfaces: %v",
		workers, iterations, names)

	var (
		wg sync.WaitGroup
		a  wext.Advisor
	)

	wg.Add(workers)
	defer wg.Wait()

	for i := 0; i < workers; i++ {
		go func(differentI int) {
			defer wg.Done()
			execN(t, iterations, names, differentI, &a)
		}(i)
	}
}

func execN(t *testing.T, n int, expect []string, worker_id int, a *wext.Advisor) {
	c := testClient(t)

	names := make(map[string]int)
	for i := 0; i < n; i++ {
		ifis, err := c.Interfaces()
		if err != nil {
			panicf("[worker_id %d; iteration %d] failed to retrieve interfaces: %v", worker_id, i, err)
		}

		for _, ifi := range ifis {
			if ifi.Name == "" {
				continue
			}

			r, err := c.RangeInfo(ifi)
			switch {
			case err == nil:
				for _, adv := range a.Check(r) {
					t.Logf("[worker_id %d] %s: %s", worker_id, ifi.Name, adv)
				}
			case errors.Is(err, unix.EOPNOTSUPP), errors.Is(err, unix.ENODEV):
				// cfg80211 built without Wireless Extensions compatibility.
			default:
				panicf("[worker_id %d; iteration %d] failed to retrieve range info for device %s: %v", worker_id, i, ifi.Name, err)
			}

			if _, err := c.BSSID(ifi); err != nil {
				if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, unix.EOPNOTSUPP) && !errors.Is(err, unix.ENODEV) {
					panicf("[worker_id %d; iteration %d] failed to retrieve BSSID for device %s: %v", worker_id, i, ifi.Name, err)
				}
			}

			if _, err := c.StationInfo(ifi); err != nil {
				if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, wext.ErrNotSupported) {
					panicf("[worker_id %d; iteration %d] failed to retrieve station info for device %s: %v", worker_id, i, ifi.Name, err)
				}
			}

			names[ifi.Name]++
		}
	}

	for _, e := range expect {
		nn, ok := names[e]
		if !ok {
			panicf("[worker_id %d] did not find interface %q during test", worker_id, e)
		}
		if nn != n {
			panicf("[worker_id %d] wanted to find %q %d times, found %d", worker_id, e, n, nn)
		}
	}
}

func testClient(t *testing.T) *wext.Client {
	t.Helper()

	c, err := wext.New()
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			t.Skipf("skipping, insufficient permissions: %v", err)
		}

		t.Fatalf("failed to create client: %v", err)
	}

	t.Cleanup(func() { _ = c.Close() })
	return c
}

func panicf(format string, a ...interface{}) {
	panic(fmt.Sprintf(format, a...))
}
