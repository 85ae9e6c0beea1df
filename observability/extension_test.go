package observability

import (
	"context"
	"testing"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/store/memory"
)

type stubCounter struct{ n int }

func (c *stubCounter) Inc()          { c.n++ }
func (c *stubCounter) Add(v float64) { c.n += int(v) }

type stubHistogram struct{ observations []float64 }

func (h *stubHistogram) Observe(v float64) { h.observations = append(h.observations, v) }

type stubFactory struct {
	counters   map[string]*stubCounter
	histograms map[string]*stubHistogram
}

func newStubFactory() *stubFactory {
	return &stubFactory{
		counters:   make(map[string]*stubCounter),
		histograms: make(map[string]*stubHistogram),
	}
}

func (f *stubFactory) Counter(name string) Counter {
	c := &stubCounter{}
	f.counters[name] = c
	return c
}

func (f *stubFactory) Histogram(name string) Histogram {
	h := &stubHistogram{}
	f.histograms[name] = h
	return h
}

func TestMetricsExtension(t *testing.T) {
	factory := newStubFactory()
	metrics := NewMetricsExtension(factory)

	l := medledger.New(memory.New(), medledger.WithPlugin(metrics))
	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := l.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})

	if _, err := l.Register(ctx, "0xpat", "patient"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Register(ctx, "0xdoc", "doctor"); err != nil {
		t.Fatal(err)
	}
	if err := l.AddBeneficiary(ctx, "0xpat", "0xkin"); err != nil {
		t.Fatal(err)
	}

	req, err := l.RequestAccess(ctx, "0xdoc", "0xpat")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.RespondToAccessRequest(ctx, req.ID.String(), "approved"); err != nil {
		t.Fatal(err)
	}
	if err := l.RevokeConsent(ctx, "0xpat", "0xdoc"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.BreakGlassAccess(ctx, "0xdoc", "0xpat", "cardiac arrest"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddHealthRecord(ctx, "0xdoc", "0xpat", "0xfeed", "lab_result"); err != nil {
		t.Fatal(err)
	}

	inv, err := l.CreateInvoice(ctx, "0xdoc", "0xpat", "125.50", "consultation")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.PayInvoice(ctx, inv.ID.String()); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Tip(ctx, "0xpat", "0xdoc", "5.00", "thanks"); err != nil {
		t.Fatal(err)
	}

	wantCounts := map[string]int{
		"medledger.user.registered":   2,
		"medledger.beneficiary.added": 1,
		"medledger.access.requested":  1,
		"medledger.access.resolved":   1,
		"medledger.consent.granted":   2, // approval cascade + break-glass
		"medledger.consent.revoked":   1,
		"medledger.emergency.access":  1,
		"medledger.record.added":      1,
		"medledger.invoice.created":   1,
		"medledger.invoice.paid":      1,
		"medledger.tip.recorded":      1,
	}
	for name, want := range wantCounts {
		c, ok := factory.counters[name]
		if !ok {
			t.Errorf("counter %q was never created", name)
			continue
		}
		if c.n != want {
			t.Errorf("counter %q = %d, want %d", name, c.n, want)
		}
	}

	latency := factory.histograms["medledger.access.resolution_seconds"]
	if latency == nil {
		t.Fatal("resolution latency histogram was never created")
	}
	if len(latency.observations) != 1 {
		t.Fatalf("latency observations = %d, want 1", len(latency.observations))
	}
	if latency.observations[0] < 0 {
		t.Errorf("latency = %v, want non-negative", latency.observations[0])
	}
}
