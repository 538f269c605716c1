// Package preflight runs best-effort checks on a freshly provisioned host
// before the service starts. Failures are reported as warnings, never as
// fatal errors.
package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AdguardTeam/dnsproxy/upstream"
	"github.com/miekg/dns"
	ps "github.com/mitchellh/go-ps"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/port"
)

const probeTimeout = 3 * time.Second

// resolverAddr matches the resolver written into the generated config, so
// the probe sees the same view of the camouflage target the proxy will.
const resolverAddr = "1.1.1.1:53"

// Result names one check and carries its failure, if any.
type Result struct {
	Name string
	Err  error
}

// Run executes all checks and returns their results in display order.
func Run(ctx context.Context, sni string, listenPort int) []Result {
	return []Result{
		{Name: "no stray proxy process", Err: CheckStrayProcess()},
		{Name: "listen port free", Err: CheckPortFree(listenPort)},
		{Name: "camouflage target resolves", Err: CheckSNIResolves(ctx, sni)},
	}
}

// CheckStrayProcess looks for a proxy process running outside the unit,
// which would already hold the listen port when the service starts.
func CheckStrayProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	for _, p := range procs {
		if p.Executable() == config.BinaryName && p.Pid() != os.Getpid() {
			return fmt.Errorf("a %s process is already running (pid %d)", config.BinaryName, p.Pid())
		}
	}

	return nil
}

// CheckPortFree re-probes the chosen port right before service start.
func CheckPortFree(listenPort int) error {
	if !port.IsAvailable(listenPort) {
		return fmt.Errorf("listen port %d is already in use", listenPort)
	}
	return nil
}

// CheckSNIResolves verifies the camouflage target has an address. A Reality
// handshake against an unresolvable server name fails for every client.
func CheckSNIResolves(ctx context.Context, sni string) error {
	u, err := upstream.AddressToUpstream(resolverAddr, &upstream.Options{
		Logger: slog.New(slog.DiscardHandler),
	})
	if err != nil {
		return fmt.Errorf("failed to create resolver: %w", err)
	}
	defer u.Close()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(sni), dns.TypeA)

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	// Exchange has no context parameter, so the timeout rides on a select.
	type result struct {
		resp *dns.Msg
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := u.Exchange(msg)
		ch <- result{resp: resp, err: err}
	}()

	var resp *dns.Msg
	select {
	case <-ctx.Done():
		return fmt.Errorf("lookup of %s timed out: %w", sni, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("lookup of %s failed: %w", sni, r.err)
		}
		resp = r.resp
	}

	if resp.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("lookup of %s answered %s", sni, dns.RcodeToString[resp.Rcode])
	}

	if len(resp.Answer) == 0 {
		return fmt.Errorf("lookup of %s returned no records", sni)
	}

	return nil
}
