package state

import (
	"encoding/json"
	"testing"

	"github.com/medchain/medledger/identity"
	"github.com/medchain/medledger/record"
)

func TestNewHasAllCollections(t *testing.T) {
	s := New()

	if s.Users == nil || s.Records == nil || s.Consent == nil || s.Beneficiaries == nil {
		t.Fatal("map collections must be present on a fresh snapshot")
	}
	if s.AccessRequests == nil || s.Invoices == nil || s.Tips == nil ||
		s.EmergencyLogs == nil || s.Transactions == nil {
		t.Fatal("list collections must be present on a fresh snapshot")
	}
}

// Documents written by an older schema version may omit entire top-level
// collections. Init must default them to empty rather than leave nil maps
// behind.
func TestInitToleratesLegacyDocument(t *testing.T) {
	legacy := []byte(`{"users":{"0xpat":{"address":"0xpat","role":"patient","registered":true}}}`)

	var s Snapshot
	if err := json.Unmarshal(legacy, &s); err != nil {
		t.Fatalf("unmarshal legacy document: %v", err)
	}
	s.Init()

	if s.Users["0xpat"] == nil || s.Users["0xpat"].Role != identity.RolePatient {
		t.Fatal("decoded user lost")
	}
	if s.Consent == nil || s.Records == nil || s.Transactions == nil {
		t.Fatal("missing collections must default to empty")
	}
	s.Consent.Set("0xpat", "0xdoc", true)
	s.Records["0xpat"] = append(s.Records["0xpat"], record.HealthRecord{DataHash: "h"})
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.Users["0xpat"] = &identity.User{Address: "0xpat", Role: identity.RolePatient, Registered: true}
	s.Consent.Set("0xpat", "0xdoc", true)
	s.Records["0xpat"] = []record.HealthRecord{{DataHash: "h1", RecordType: "lab"}}
	s.Beneficiaries["0xpat"] = "0xben"

	c := s.Clone()
	c.Users["0xpat"].Role = identity.RoleAdmin
	c.Consent.Set("0xpat", "0xdoc", false)
	c.Records["0xpat"][0].DataHash = "mutated"
	c.Beneficiaries["0xpat"] = "0xother"

	if s.Users["0xpat"].Role != identity.RolePatient {
		t.Error("clone shares user pointers with the original")
	}
	if !s.Consent.Granted("0xpat", "0xdoc") {
		t.Error("clone shares consent maps with the original")
	}
	if s.Records["0xpat"][0].DataHash != "h1" {
		t.Error("clone shares record slices with the original")
	}
	if s.Beneficiaries["0xpat"] != "0xben" {
		t.Error("clone shares beneficiary map with the original")
	}
}

func TestJSONKeysMatchDocumentFormat(t *testing.T) {
	data, err := json.Marshal(New())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, col := range Collections() {
		if _, ok := doc[string(col)]; !ok {
			t.Errorf("persisted document missing collection %q", col)
		}
	}
}
