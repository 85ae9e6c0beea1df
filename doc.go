// Package medledger provides a permissioned authorization ledger for
// healthcare data sharing.
//
// Medledger is designed as a library, not a service. Import it directly into
// your Go application and embed the authorization state machine wherever
// patient data flows. It provides:
//
//   - Role-based identity registration (patients and doctors)
//   - Patient-controlled consent edges with grant/revoke semantics
//   - A single overwritable beneficiary delegate per patient
//   - Off-chain health record references (hash, timestamp, type)
//   - Doctor-to-patient access requests resolved exactly once
//   - Service invoices with settlement references, plus voluntary tips
//   - Break-glass emergency access with a permanent log
//   - A newest-first, append-only audit trail of every mutation
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/medchain/medledger"
//	    "github.com/medchain/medledger/store/memory"
//	)
//
//	l := medledger.New(memory.New())
//
//	// Start the ledger (runs migrations and loads the snapshot)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Every participant registers once, with a role:
//
//	patient, err := l.Register(ctx, "0xa11ce", "patient")
//	doctor, err := l.Register(ctx, "0xd0c", "doctor")
//
// Patients control who may read their data through consent edges:
//
//	err = l.GrantConsent(ctx, patient.Address, doctor.Address)
//	ok := l.HasConsent(ctx, patient.Address, doctor.Address)
//
// Doctors ask for access through requests the patient resolves exactly once;
// approval grants consent atomically:
//
//	req, err := l.RequestAccess(ctx, doctor.Address, patient.Address)
//	err = l.RespondToAccessRequest(ctx, req.ID.String(), "approved")
//
// Health records hold references, never payloads. The ledger stores the
// content hash and leaves the bytes to external storage:
//
//	rec, err := l.AddHealthRecord(ctx, patient.Address, patient.Address, dataHash, "lab_result")
//
// # Persistence
//
// Stores implement a snapshot contract: the engine keeps authoritative state
// in memory and persists the full snapshot (or the dirty collections) after
// every mutation. Backends are provided for memory, JSON files, SQLite,
// Postgres, and MongoDB.
//
// # TypeID
//
// All generated entities use TypeID for globally unique, type-safe
// identifiers:
//
//	areq_01h2xcejqtf2nbrexx3vqjhp41  // Access request ID
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//	pay_01h455vb4pex5vsknk084sn02q   // Settlement reference
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package medledger
