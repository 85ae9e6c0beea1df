package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/medchain/medledger/access"
	"github.com/medchain/medledger/audit"
	"github.com/medchain/medledger/id"
	"github.com/medchain/medledger/identity"
	"github.com/medchain/medledger/invoice"
	"github.com/medchain/medledger/record"
	"github.com/medchain/medledger/types"
)

// ==================== User models ====================

type userModel struct {
	grove.BaseModel `grove:"table:medledger_users"`

	Address    string    `grove:"address,pk" bson:"_id"`
	Role       string    `grove:"role"       bson:"role"`
	Registered bool      `grove:"registered" bson:"registered"`
	CreatedAt  time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at" bson:"updated_at"`
}

func toUserModel(u *identity.User) *userModel {
	return &userModel{
		Address:    u.Address,
		Role:       u.Role.String(),
		Registered: u.Registered,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func fromUserModel(m *userModel) *identity.User {
	return &identity.User{
		Entity:     types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Address:    m.Address,
		Role:       identity.Role(m.Role),
		Registered: m.Registered,
	}
}

// ==================== Health record models ====================

type recordModel struct {
	grove.BaseModel `grove:"table:medledger_records"`

	ID         string `grove:"id,pk"       bson:"_id"`
	Patient    string `grove:"patient"     bson:"patient"`
	Idx        int    `grove:"idx"         bson:"idx"`
	DataHash   string `grove:"data_hash"   bson:"data_hash"`
	Timestamp  int64  `grove:"timestamp"   bson:"timestamp"`
	RecordType string `grove:"record_type" bson:"record_type"`
}

func toRecordModel(patient string, idx int, r record.HealthRecord) recordModel {
	return recordModel{
		ID:         recordKey(patient, idx),
		Patient:    patient,
		Idx:        idx,
		DataHash:   r.DataHash,
		Timestamp:  r.Timestamp,
		RecordType: r.RecordType,
	}
}

func fromRecordModel(m *recordModel) record.HealthRecord {
	return record.HealthRecord{
		DataHash:   m.DataHash,
		Timestamp:  m.Timestamp,
		RecordType: m.RecordType,
	}
}

// ==================== Consent models ====================

type consentModel struct {
	grove.BaseModel `grove:"table:medledger_consent"`

	ID       string `grove:"id,pk"    bson:"_id"`
	Patient  string `grove:"patient"  bson:"patient"`
	Consumer string `grove:"consumer" bson:"consumer"`
	Granted  bool   `grove:"granted"  bson:"granted"`
}

// ==================== Beneficiary models ====================

type beneficiaryModel struct {
	grove.BaseModel `grove:"table:medledger_beneficiaries"`

	Patient     string `grove:"patient,pk"  bson:"_id"`
	Beneficiary string `grove:"beneficiary" bson:"beneficiary"`
}

// ==================== Access request models ====================

type accessRequestModel struct {
	grove.BaseModel `grove:"table:medledger_access_requests"`

	ID        string `grove:"id,pk"     bson:"_id"`
	FromAddr  string `grove:"from_addr" bson:"from_addr"`
	ToAddr    string `grove:"to_addr"   bson:"to_addr"`
	Status    string `grove:"status"    bson:"status"`
	Timestamp int64  `grove:"timestamp" bson:"timestamp"`
}

func toAccessRequestModel(req *access.Request) *accessRequestModel {
	return &accessRequestModel{
		ID:        req.ID.String(),
		FromAddr:  req.From,
		ToAddr:    req.To,
		Status:    string(req.Status),
		Timestamp: req.Timestamp,
	}
}

func fromAccessRequestModel(m *accessRequestModel) (*access.Request, error) {
	reqID, err := id.ParseAccessRequestID(m.ID)
	if err != nil {
		return nil, err
	}
	return &access.Request{
		ID:        reqID,
		From:      m.FromAddr,
		To:        m.ToAddr,
		Status:    access.Status(m.Status),
		Timestamp: m.Timestamp,
	}, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	grove.BaseModel `grove:"table:medledger_invoices"`

	ID            string `grove:"id,pk"          bson:"_id"`
	Provider      string `grove:"provider"       bson:"provider"`
	Patient       string `grove:"patient"        bson:"patient"`
	Amount        string `grove:"amount"         bson:"amount"`
	Service       string `grove:"service"        bson:"service"`
	Status        string `grove:"status"         bson:"status"`
	Timestamp     int64  `grove:"timestamp"      bson:"timestamp"`
	SettlementRef string `grove:"settlement_ref" bson:"settlement_ref,omitempty"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	return &invoiceModel{
		ID:            inv.ID.String(),
		Provider:      inv.Provider,
		Patient:       inv.Patient,
		Amount:        inv.Amount.String(),
		Service:       inv.Service,
		Status:        string(inv.Status),
		Timestamp:     inv.Timestamp,
		SettlementRef: inv.SettlementRef,
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	invID, err := id.ParseInvoiceID(m.ID)
	if err != nil {
		return nil, err
	}
	return &invoice.Invoice{
		ID:            invID,
		Provider:      m.Provider,
		Patient:       m.Patient,
		Amount:        types.Amount(m.Amount),
		Service:       m.Service,
		Status:        invoice.Status(m.Status),
		Timestamp:     m.Timestamp,
		SettlementRef: m.SettlementRef,
	}, nil
}

// ==================== Tip models ====================

type tipModel struct {
	grove.BaseModel `grove:"table:medledger_tips"`

	ID        string `grove:"id,pk"     bson:"_id"`
	FromAddr  string `grove:"from_addr" bson:"from_addr"`
	ToAddr    string `grove:"to_addr"   bson:"to_addr"`
	Amount    string `grove:"amount"    bson:"amount"`
	Message   string `grove:"message"   bson:"message,omitempty"`
	Timestamp int64  `grove:"timestamp" bson:"timestamp"`
}

func toTipModel(t invoice.Tip) tipModel {
	return tipModel{
		ID:        t.ID.String(),
		FromAddr:  t.From,
		ToAddr:    t.To,
		Amount:    t.Amount.String(),
		Message:   t.Message,
		Timestamp: t.Timestamp,
	}
}

func fromTipModel(m *tipModel) (invoice.Tip, error) {
	tipID, err := id.ParseTipID(m.ID)
	if err != nil {
		return invoice.Tip{}, err
	}
	return invoice.Tip{
		ID:        tipID,
		From:      m.FromAddr,
		To:        m.ToAddr,
		Amount:    types.Amount(m.Amount),
		Message:   m.Message,
		Timestamp: m.Timestamp,
	}, nil
}

// ==================== Emergency log models ====================

type emergencyLogModel struct {
	grove.BaseModel `grove:"table:medledger_emergency_logs"`

	ID        string `grove:"id,pk"     bson:"_id"`
	Doctor    string `grove:"doctor"    bson:"doctor"`
	Patient   string `grove:"patient"   bson:"patient"`
	Reason    string `grove:"reason"    bson:"reason"`
	Timestamp int64  `grove:"timestamp" bson:"timestamp"`
}

func toEmergencyLogModel(e audit.EmergencyLog) emergencyLogModel {
	return emergencyLogModel{
		ID:        e.ID.String(),
		Doctor:    e.Doctor,
		Patient:   e.Patient,
		Reason:    e.Reason,
		Timestamp: e.Timestamp,
	}
}

func fromEmergencyLogModel(m *emergencyLogModel) (audit.EmergencyLog, error) {
	logID, err := id.ParseEmergencyLogID(m.ID)
	if err != nil {
		return audit.EmergencyLog{}, err
	}
	return audit.EmergencyLog{
		ID:        logID,
		Doctor:    m.Doctor,
		Patient:   m.Patient,
		Reason:    m.Reason,
		Timestamp: m.Timestamp,
	}, nil
}

// ==================== Transaction models ====================

// Seq is the position in the newest-first trail; 0 is the most recent
// entry. It restores ordering on Load.
type transactionModel struct {
	grove.BaseModel `grove:"table:medledger_transactions"`

	Hash      string            `grove:"hash,pk"   bson:"_id"`
	Seq       int               `grove:"seq"       bson:"seq"`
	FromAddr  string            `grove:"from_addr" bson:"from_addr"`
	ToAddr    string            `grove:"to_addr"   bson:"to_addr,omitempty"`
	Action    string            `grove:"action"    bson:"action"`
	Data      map[string]string `grove:"data"      bson:"data,omitempty"`
	Timestamp int64             `grove:"timestamp" bson:"timestamp"`
	Status    string            `grove:"status"    bson:"status"`
}

func toTransactionModel(seq int, tx audit.Transaction) transactionModel {
	return transactionModel{
		Hash:      tx.Hash.String(),
		Seq:       seq,
		FromAddr:  tx.From,
		ToAddr:    tx.To,
		Action:    tx.Action,
		Data:      tx.Data,
		Timestamp: tx.Timestamp,
		Status:    string(tx.Status),
	}
}

func fromTransactionModel(m *transactionModel) (audit.Transaction, error) {
	hash, err := id.ParseTransactionID(m.Hash)
	if err != nil {
		return audit.Transaction{}, err
	}
	return audit.Transaction{
		Hash:      hash,
		From:      m.FromAddr,
		To:        m.ToAddr,
		Action:    m.Action,
		Data:      m.Data,
		Timestamp: m.Timestamp,
		Status:    audit.Status(m.Status),
	}, nil
}
