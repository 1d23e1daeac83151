// Command dnsdiag is a standalone DNS/connectivity diagnostic, useful
// when a browser resolves a host but this program's own HTTP client
// does not. It ships alongside naive-backlink but has no dependency on
// any of its packages: an OS resolver lookup split into A/AAAA, TCP
// connect probes on 80/443 for each address family, a TLS handshake
// probe, and DNS-over-HTTPS lookups against Cloudflare and Google for
// comparison against the OS resolver's answer.
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	noDoH := flag.Bool("no-doh", false, "skip DNS-over-HTTPS probes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [--no-doh] host\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	host := strings.TrimSpace(flag.Arg(0))

	os.Exit(run(host, *noDoH))
}

func run(host string, noDoH bool) int {
	fmt.Printf("=== DNS Diagnostics for %s ===\n\n", host)

	v4, v6 := resolveOS(host)
	fmt.Println()

	for _, probe := range []struct {
		label   string
		network string
	}{{"IPv4", "tcp4"}, {"IPv6", "tcp6"}} {
		probeConnect(host, probe.label, probe.network, "443")
		probeTLS(host, probe.label, probe.network)
		probeConnect(host, probe.label, probe.network, "80")
		fmt.Println()
	}

	if !noDoH {
		for _, provider := range []string{"cloudflare", "google"} {
			queryDoH(host, provider)
			fmt.Println()
		}
	}

	return verdict(host, v4, v6)
}

// resolveOS looks up host once via the OS resolver and reports whether
// any IPv4 and any IPv6 address came back.
func resolveOS(host string) (haveV4, haveV6 bool) {
	ips, err := net.DefaultResolver.LookupIPAddr(context.Background(), host)
	if err != nil {
		fmt.Printf("[OS] LookupIPAddr(%s) ERROR: %s\n", host, err)
		return false, false
	}
	var v4, v6 []string
	for _, ip := range ips {
		if ip.IP.To4() != nil {
			v4 = append(v4, ip.String())
		} else {
			v6 = append(v6, ip.String())
		}
	}
	fmt.Printf("[OS] LookupIPAddr(%s) AF_INET  -> %v\n", host, v4)
	fmt.Printf("[OS] LookupIPAddr(%s) AF_INET6 -> %v\n", host, v6)
	return len(v4) > 0, len(v6) > 0
}

// probeConnect attempts a plain TCP connect to host:port restricted to
// network ("tcp4" or "tcp6"), reporting success or the dial error.
func probeConnect(host, label, network, port string) {
	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.DialContext(context.Background(), network, net.JoinHostPort(host, port))
	if err != nil {
		fmt.Printf("[TCP %s] %s -> FAIL: %s\n", label, port, err)
		return
	}
	defer conn.Close()
	fmt.Printf("[TCP %s] %s -> connected to %s\n", label, port, conn.RemoteAddr())
}

// probeTLS attempts a TLS handshake on port 443 restricted to network.
func probeTLS(host, label, network string) {
	d := net.Dialer{Timeout: 7 * time.Second}
	conn, err := tls.DialWithDialer(&d, network, net.JoinHostPort(host, "443"), &tls.Config{ServerName: host})
	if err != nil {
		fmt.Printf("[TLS %s] 443 -> FAIL: %s\n", label, err)
		return
	}
	defer conn.Close()
	fmt.Printf("[TLS %s] 443 -> TLS OK to %s\n", label, conn.RemoteAddr())
}

// queryDoH queries provider's DNS-over-HTTPS JSON endpoint for host's A
// and AAAA records, for comparison against the OS resolver's answer.
func queryDoH(host, provider string) {
	endpoint := map[string]string{
		"cloudflare": "https://cloudflare-dns.com/dns-query",
		"google":     "https://dns.google/resolve",
	}[provider]

	client := &http.Client{Timeout: 5 * time.Second}
	for _, rtype := range []string{"A", "AAAA"} {
		req, err := http.NewRequest(http.MethodGet, endpoint, nil)
		if err != nil {
			fmt.Printf("[DoH %s] %s ERROR: %s\n", provider, rtype, err)
			continue
		}
		q := req.URL.Query()
		q.Set("name", host)
		q.Set("type", rtype)
		req.URL.RawQuery = q.Encode()
		req.Header.Set("accept", "application/dns-json")

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("[DoH %s] %s ERROR: %s\n", provider, rtype, err)
			continue
		}
		body, err := decodeDoH(resp)
		resp.Body.Close()
		if err != nil {
			fmt.Printf("[DoH %s] %s ERROR: %s\n", provider, rtype, err)
			continue
		}
		fmt.Printf("[DoH %s] %s: %s\n", provider, rtype, body)
	}
}

func decodeDoH(resp *http.Response) (string, error) {
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	if len(encoded) > 400 {
		return string(encoded[:400]), nil
	}
	return string(encoded), nil
}

// verdict prints a one-line diagnosis and returns the process exit
// code: 2 when the OS resolver produced no address at all, 0 otherwise.
func verdict(host string, haveV4, haveV6 bool) int {
	switch {
	case !haveV4 && !haveV6:
		fmt.Println("VERDICT: OS resolver could not resolve the host at all. This points to DNS issues on your system/network.")
		return 2
	case haveV6 && !haveV4:
		fmt.Println("VERDICT: Only IPv6 resolves. If connections fail above, you may have IPv6 routing/firewall issues.")
	case haveV4 && !haveV6:
		fmt.Println("VERDICT: Only IPv4 resolves. That's usually fine. If the browser works but this tool fails, check the local firewall.")
	default:
		fmt.Println("VERDICT: Both IPv4 and IPv6 resolve via the OS. If fetches still fail, investigate firewall/AV, TLS interception, or proxy settings.")
	}
	return 0
}
