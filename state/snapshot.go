// Package state defines the persisted ledger snapshot: a single document
// holding every collection the engine operates on.
package state

import (
	"github.com/medchain/medledger/access"
	"github.com/medchain/medledger/audit"
	"github.com/medchain/medledger/consent"
	"github.com/medchain/medledger/identity"
	"github.com/medchain/medledger/invoice"
	"github.com/medchain/medledger/record"
)

// Collection names the top-level collections of a snapshot. Stores use
// these as dirty hints so a save can skip collections that did not change.
type Collection string

const (
	CollectionUsers          Collection = "users"
	CollectionRecords        Collection = "records"
	CollectionConsent        Collection = "consent"
	CollectionBeneficiaries  Collection = "beneficiaries"
	CollectionAccessRequests Collection = "accessRequests"
	CollectionInvoices       Collection = "invoices"
	CollectionTips           Collection = "tips"
	CollectionEmergencyLogs  Collection = "emergencyLogs"
	CollectionTransactions   Collection = "transactions"
)

// Collections lists every snapshot collection.
func Collections() []Collection {
	return []Collection{
		CollectionUsers,
		CollectionRecords,
		CollectionConsent,
		CollectionBeneficiaries,
		CollectionAccessRequests,
		CollectionInvoices,
		CollectionTips,
		CollectionEmergencyLogs,
		CollectionTransactions,
	}
}

// Snapshot is the full ledger document. Users, records, consent edges and
// beneficiaries are keyed by normalized address; the list collections keep
// insertion order, with Transactions newest-first.
type Snapshot struct {
	Users          map[string]*identity.User        `json:"users"`
	Records        map[string][]record.HealthRecord `json:"records"`
	Consent        consent.Ledger                   `json:"consent"`
	Beneficiaries  map[string]string                `json:"beneficiaries"`
	AccessRequests []*access.Request                `json:"accessRequests"`
	Invoices       []*invoice.Invoice               `json:"invoices"`
	Tips           []invoice.Tip                    `json:"tips"`
	EmergencyLogs  []audit.EmergencyLog             `json:"emergencyLogs"`
	Transactions   []audit.Transaction              `json:"transactions"`
}

// New returns an empty snapshot with every collection present.
func New() *Snapshot {
	s := &Snapshot{}
	s.Init()
	return s
}

// Init fills in any missing collection so that a snapshot decoded from an
// older schema version (or the zero value) is safe to operate on.
func (s *Snapshot) Init() {
	if s.Users == nil {
		s.Users = make(map[string]*identity.User)
	}
	if s.Records == nil {
		s.Records = make(map[string][]record.HealthRecord)
	}
	if s.Consent == nil {
		s.Consent = make(consent.Ledger)
	}
	if s.Beneficiaries == nil {
		s.Beneficiaries = make(map[string]string)
	}
	if s.AccessRequests == nil {
		s.AccessRequests = []*access.Request{}
	}
	if s.Invoices == nil {
		s.Invoices = []*invoice.Invoice{}
	}
	if s.Tips == nil {
		s.Tips = []invoice.Tip{}
	}
	if s.EmergencyLogs == nil {
		s.EmergencyLogs = []audit.EmergencyLog{}
	}
	if s.Transactions == nil {
		s.Transactions = []audit.Transaction{}
	}
}

// Clone returns a deep copy of the snapshot. Stores hand out clones so
// that readers never observe a partially-written document.
func (s *Snapshot) Clone() *Snapshot {
	out := New()

	for addr, u := range s.Users {
		copied := *u
		out.Users[addr] = &copied
	}
	for addr, recs := range s.Records {
		out.Records[addr] = append([]record.HealthRecord(nil), recs...)
	}
	out.Consent = s.Consent.Clone()
	for patient, beneficiary := range s.Beneficiaries {
		out.Beneficiaries[patient] = beneficiary
	}
	for _, req := range s.AccessRequests {
		copied := *req
		out.AccessRequests = append(out.AccessRequests, &copied)
	}
	for _, inv := range s.Invoices {
		copied := *inv
		out.Invoices = append(out.Invoices, &copied)
	}
	out.Tips = append(out.Tips, s.Tips...)
	out.EmergencyLogs = append(out.EmergencyLogs, s.EmergencyLogs...)
	for _, tx := range s.Transactions {
		copied := tx
		if tx.Data != nil {
			copied.Data = make(map[string]string, len(tx.Data))
			for k, v := range tx.Data {
				copied.Data[k] = v
			}
		}
		out.Transactions = append(out.Transactions, copied)
	}

	return out
}

// FindAccessRequest returns the request with the given id, or nil.
func (s *Snapshot) FindAccessRequest(requestID string) *access.Request {
	for _, req := range s.AccessRequests {
		if req.ID.String() == requestID {
			return req
		}
	}
	return nil
}

// FindInvoice returns the invoice with the given id, or nil.
func (s *Snapshot) FindInvoice(invoiceID string) *invoice.Invoice {
	for _, inv := range s.Invoices {
		if inv.ID.String() == invoiceID {
			return inv
		}
	}
	return nil
}
