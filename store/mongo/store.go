// Package mongo implements store.Store on MongoDB via the Grove ORM.
//
// The snapshot is decomposed into one collection per ledger collection.
// Save rewrites only the collections named in the dirty hints; a Save
// without hints rewrites everything.
package mongo

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/consent"
	"github.com/medchain/medledger/state"
	ledgerstore "github.com/medchain/medledger/store"
)

// Collection name constants.
const (
	colUsers          = "medledger_users"
	colRecords        = "medledger_records"
	colConsent        = "medledger_consent"
	colBeneficiaries  = "medledger_beneficiaries"
	colAccessRequests = "medledger_access_requests"
	colInvoices       = "medledger_invoices"
	colTips           = "medledger_tips"
	colEmergencyLogs  = "medledger_emergency_logs"
	colTransactions   = "medledger_transactions"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all medledger collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("medledger/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil || s.mdb == nil {
		return medledger.ErrStoreNotReady
	}
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Load ====================

func (s *Store) Load(ctx context.Context) (*state.Snapshot, error) {
	snap := state.New()

	var users []userModel
	if err := s.mdb.NewFind(&users).Filter(bson.M{}).Scan(ctx); err != nil {
		return nil, fmt.Errorf("medledger/mongo: load users: %w", err)
	}
	for i := range users {
		u := fromUserModel(&users[i])
		snap.Users[u.Address] = u
	}

	var records []recordModel
	err := s.mdb.NewFind(&records).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "patient", Value: 1}, {Key: "idx", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("medledger/mongo: load records: %w", err)
	}
	for i := range records {
		m := &records[i]
		snap.Records[m.Patient] = append(snap.Records[m.Patient], fromRecordModel(m))
	}

	var consents []consentModel
	if err := s.mdb.NewFind(&consents).Filter(bson.M{}).Scan(ctx); err != nil {
		return nil, fmt.Errorf("medledger/mongo: load consent: %w", err)
	}
	for i := range consents {
		m := &consents[i]
		snap.Consent.Set(m.Patient, m.Consumer, m.Granted)
	}

	var beneficiaries []beneficiaryModel
	if err := s.mdb.NewFind(&beneficiaries).Filter(bson.M{}).Scan(ctx); err != nil {
		return nil, fmt.Errorf("medledger/mongo: load beneficiaries: %w", err)
	}
	for i := range beneficiaries {
		snap.Beneficiaries[beneficiaries[i].Patient] = beneficiaries[i].Beneficiary
	}

	var requests []accessRequestModel
	err = s.mdb.NewFind(&requests).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "timestamp", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("medledger/mongo: load access requests: %w", err)
	}
	for i := range requests {
		req, err := fromAccessRequestModel(&requests[i])
		if err != nil {
			return nil, fmt.Errorf("medledger/mongo: decode access request: %w", err)
		}
		snap.AccessRequests = append(snap.AccessRequests, req)
	}

	var invoices []invoiceModel
	err = s.mdb.NewFind(&invoices).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "timestamp", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("medledger/mongo: load invoices: %w", err)
	}
	for i := range invoices {
		inv, err := fromInvoiceModel(&invoices[i])
		if err != nil {
			return nil, fmt.Errorf("medledger/mongo: decode invoice: %w", err)
		}
		snap.Invoices = append(snap.Invoices, inv)
	}

	var tips []tipModel
	err = s.mdb.NewFind(&tips).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "timestamp", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("medledger/mongo: load tips: %w", err)
	}
	for i := range tips {
		tip, err := fromTipModel(&tips[i])
		if err != nil {
			return nil, fmt.Errorf("medledger/mongo: decode tip: %w", err)
		}
		snap.Tips = append(snap.Tips, tip)
	}

	var logs []emergencyLogModel
	err = s.mdb.NewFind(&logs).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "timestamp", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("medledger/mongo: load emergency logs: %w", err)
	}
	for i := range logs {
		entry, err := fromEmergencyLogModel(&logs[i])
		if err != nil {
			return nil, fmt.Errorf("medledger/mongo: decode emergency log: %w", err)
		}
		snap.EmergencyLogs = append(snap.EmergencyLogs, entry)
	}

	var txns []transactionModel
	err = s.mdb.NewFind(&txns).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "seq", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("medledger/mongo: load transactions: %w", err)
	}
	for i := range txns {
		tx, err := fromTransactionModel(&txns[i])
		if err != nil {
			return nil, fmt.Errorf("medledger/mongo: decode transaction: %w", err)
		}
		snap.Transactions = append(snap.Transactions, tx)
	}

	return snap, nil
}

// ==================== Save ====================

func (s *Store) Save(ctx context.Context, snap *state.Snapshot, dirty ...state.Collection) error {
	cols := dirty
	if len(cols) == 0 {
		cols = state.Collections()
	}

	for _, col := range cols {
		var err error
		switch col {
		case state.CollectionUsers:
			err = s.saveUsers(ctx, snap)
		case state.CollectionRecords:
			err = s.saveRecords(ctx, snap)
		case state.CollectionConsent:
			err = s.saveConsent(ctx, snap.Consent)
		case state.CollectionBeneficiaries:
			err = s.saveBeneficiaries(ctx, snap)
		case state.CollectionAccessRequests:
			err = s.saveAccessRequests(ctx, snap)
		case state.CollectionInvoices:
			err = s.saveInvoices(ctx, snap)
		case state.CollectionTips:
			err = s.saveTips(ctx, snap)
		case state.CollectionEmergencyLogs:
			err = s.saveEmergencyLogs(ctx, snap)
		case state.CollectionTransactions:
			err = s.saveTransactions(ctx, snap)
		}
		if err != nil {
			return fmt.Errorf("medledger/mongo: save %s: %w", col, err)
		}
	}
	return nil
}

func (s *Store) saveUsers(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*userModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	if len(snap.Users) == 0 {
		return nil
	}
	models := make([]userModel, 0, len(snap.Users))
	for _, u := range snap.Users {
		models = append(models, *toUserModel(u))
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveRecords(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*recordModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	var models []recordModel
	for patient, recs := range snap.Records {
		for idx, r := range recs {
			models = append(models, toRecordModel(patient, idx, r))
		}
	}
	if len(models) == 0 {
		return nil
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveConsent(ctx context.Context, ledger consent.Ledger) error {
	if _, err := s.mdb.NewDelete((*consentModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	var models []consentModel
	for patient, consumers := range ledger {
		for consumer, granted := range consumers {
			models = append(models, consentModel{
				ID:       patient + ":" + consumer,
				Patient:  patient,
				Consumer: consumer,
				Granted:  granted,
			})
		}
	}
	if len(models) == 0 {
		return nil
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveBeneficiaries(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*beneficiaryModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	if len(snap.Beneficiaries) == 0 {
		return nil
	}
	models := make([]beneficiaryModel, 0, len(snap.Beneficiaries))
	for patient, beneficiary := range snap.Beneficiaries {
		models = append(models, beneficiaryModel{
			Patient:     patient,
			Beneficiary: beneficiary,
		})
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveAccessRequests(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*accessRequestModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	if len(snap.AccessRequests) == 0 {
		return nil
	}
	models := make([]accessRequestModel, 0, len(snap.AccessRequests))
	for _, req := range snap.AccessRequests {
		models = append(models, *toAccessRequestModel(req))
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveInvoices(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*invoiceModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	if len(snap.Invoices) == 0 {
		return nil
	}
	models := make([]invoiceModel, 0, len(snap.Invoices))
	for _, inv := range snap.Invoices {
		models = append(models, *toInvoiceModel(inv))
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveTips(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*tipModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	if len(snap.Tips) == 0 {
		return nil
	}
	models := make([]tipModel, 0, len(snap.Tips))
	for _, tip := range snap.Tips {
		models = append(models, toTipModel(tip))
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveEmergencyLogs(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*emergencyLogModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	if len(snap.EmergencyLogs) == 0 {
		return nil
	}
	models := make([]emergencyLogModel, 0, len(snap.EmergencyLogs))
	for _, entry := range snap.EmergencyLogs {
		models = append(models, toEmergencyLogModel(entry))
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveTransactions(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.mdb.NewDelete((*transactionModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return err
	}
	if len(snap.Transactions) == 0 {
		return nil
	}
	models := make([]transactionModel, 0, len(snap.Transactions))
	for seq, tx := range snap.Transactions {
		models = append(models, toTransactionModel(seq, tx))
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	return err
}

// ==================== Helpers ====================

// recordKey builds the document id for a health record row.
func recordKey(patient string, idx int) string {
	return patient + ":" + strconv.Itoa(idx)
}

// migrationIndexes returns the index definitions for all medledger collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		colRecords: {
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "idx", Value: 1}}},
		},
		colConsent: {
			{Keys: bson.D{{Key: "patient", Value: 1}}},
		},
		colBeneficiaries: {},
		colAccessRequests: {
			{Keys: bson.D{{Key: "from_addr", Value: 1}}},
			{Keys: bson.D{{Key: "to_addr", Value: 1}}},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "provider", Value: 1}}},
			{Keys: bson.D{{Key: "patient", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colTips: {
			{Keys: bson.D{{Key: "to_addr", Value: 1}}},
		},
		colEmergencyLogs: {
			{Keys: bson.D{{Key: "patient", Value: 1}}},
		},
		colTransactions: {
			{Keys: bson.D{{Key: "seq", Value: 1}}},
			{Keys: bson.D{{Key: "from_addr", Value: 1}}},
			{Keys: bson.D{{Key: "to_addr", Value: 1}}},
		},
	}
}
