package medledger_test

import (
	"context"
	"log"
	"log/slog"
	"testing"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/store/memory"
	"github.com/medchain/medledger/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize the ledger
		l := medledger.New(store,
			medledger.WithLogger(slog.Default()),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Register participants
		patient, err := l.Register(ctx, "0xa11ce", "patient")
		if err != nil {
			t.Fatal(err)
		}
		doctor, err := l.Register(ctx, "0xd0c", "doctor")
		if err != nil {
			t.Fatal(err)
		}

		// The doctor asks for access; the patient approves exactly once.
		req, err := l.RequestAccess(ctx, doctor.Address, patient.Address)
		if err != nil {
			t.Fatal(err)
		}
		if err := l.RespondToAccessRequest(ctx, req.ID.String(), "approved"); err != nil {
			t.Fatal(err)
		}

		// Approval grants consent, so the doctor may now write records.
		if l.HasConsent(ctx, patient.Address, doctor.Address) {
			if _, err := l.AddHealthRecord(ctx, doctor.Address, patient.Address, "0xfeedbeef", "lab_result"); err != nil {
				t.Fatal(err)
			}
		}

		// Bill for the visit and settle it.
		inv, err := l.CreateInvoice(ctx, doctor.Address, patient.Address, "125.50", "consultation")
		if err != nil {
			t.Fatal(err)
		}
		paid, err := l.PayInvoice(ctx, inv.ID.String())
		if err != nil {
			t.Fatal(err)
		}

		log.Printf("Invoice settled: %s\n", paid.SettlementRef)

		// Every mutation lands on the audit trail, newest first.
		trail := l.Transactions(ctx, "")
		log.Printf("Audit entries: %d\n", len(trail))
	})

	// Test Amount type examples
	t.Run("AmountExamples", func(t *testing.T) {
		// Parsing
		a, err := types.ParseAmount("49.00")
		if err != nil {
			t.Fatal(err)
		}
		_ = types.MustAmount("0.99")

		// Predicates
		if a.IsZero() {
			// no charge
		}

		// Formatting
		_ = a.String() // "49.00"
	})
}
