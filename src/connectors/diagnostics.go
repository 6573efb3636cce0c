package connectors

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// DiagnosticsReport is the read-only connectivity picture for one provider
// host. It lets an operator split "our credentials or service logic is
// broken" from "the network path to the provider is blocked".
type DiagnosticsReport struct {
	Host               string   `json:"host"`
	CredentialsPresent bool     `json:"credentials_present"`
	DNSResolved        bool     `json:"dns_resolved"`
	TCPReachable       bool     `json:"tcp_reachable"`
	HTTPSReachable     bool     `json:"https_reachable"`
	Errors             []string `json:"errors,omitempty"`
}

// NetworkProbe runs best-effort DNS, TCP and HTTPS checks with short
// per-check timeouts. Checks are independent: one failing does not
// short-circuit the others, and nothing here touches trading state.
type NetworkProbe struct {
	Timeout time.Duration
}

func NewNetworkProbe() *NetworkProbe {
	return &NetworkProbe{Timeout: 5 * time.Second}
}

// Probe checks the given host on port 443. All three checks run
// concurrently and the report is assembled once they all return.
func (p *NetworkProbe) Probe(ctx context.Context, host string) *DiagnosticsReport {
	report := &DiagnosticsReport{Host: host}

	var mu sync.Mutex
	var wg sync.WaitGroup

	fail := func(check string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", check, err))
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		checkCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		defer cancel()

		if _, err := net.DefaultResolver.LookupHost(checkCtx, host); err != nil {
			fail("dns", err)
			return
		}
		mu.Lock()
		report.DNSResolved = true
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		dialer := net.Dialer{Timeout: p.Timeout}
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "443"))
		if err != nil {
			fail("tcp", err)
			return
		}
		conn.Close()
		mu.Lock()
		report.TCPReachable = true
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		client := &http.Client{
			Timeout: p.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+host+"/", nil)
		if err != nil {
			fail("https", err)
			return
		}
		resp, err := client.Do(req)
		if err != nil {
			fail("https", err)
			return
		}
		resp.Body.Close()
		mu.Lock()
		report.HTTPSReachable = true
		mu.Unlock()
	}()

	wg.Wait()
	return report
}
