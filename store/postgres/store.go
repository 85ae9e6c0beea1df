// Package postgres implements store.Store on PostgreSQL via the Grove ORM.
//
// The snapshot is decomposed into one table per collection. Save rewrites
// only the collections named in the dirty hints; a Save without hints
// rewrites every table.
package postgres

import (
	"context"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/consent"
	"github.com/medchain/medledger/state"
	ledgerstore "github.com/medchain/medledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("medledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("medledger/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil || s.pg == nil {
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

	if err := s.loadUsers(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadRecords(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadConsent(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadBeneficiaries(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadAccessRequests(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadInvoices(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadTips(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadEmergencyLogs(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadTransactions(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) loadUsers(ctx context.Context, snap *state.Snapshot) error {
	var models []userModel
	if err := s.pg.NewSelect(&models).Scan(ctx); err != nil {
		return fmt.Errorf("medledger/postgres: load users: %w", err)
	}
	for i := range models {
		u := fromUserModel(&models[i])
		snap.Users[u.Address] = u
	}
	return nil
}

func (s *Store) loadRecords(ctx context.Context, snap *state.Snapshot) error {
	var models []recordModel
	err := s.pg.NewSelect(&models).
		OrderExpr("patient ASC, idx ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("medledger/postgres: load records: %w", err)
	}
	for i := range models {
		m := &models[i]
		snap.Records[m.Patient] = append(snap.Records[m.Patient], fromRecordModel(m))
	}
	return nil
}

func (s *Store) loadConsent(ctx context.Context, snap *state.Snapshot) error {
	var models []consentModel
	if err := s.pg.NewSelect(&models).Scan(ctx); err != nil {
		return fmt.Errorf("medledger/postgres: load consent: %w", err)
	}
	for i := range models {
		m := &models[i]
		snap.Consent.Set(m.Patient, m.Consumer, m.Granted)
	}
	return nil
}

func (s *Store) loadBeneficiaries(ctx context.Context, snap *state.Snapshot) error {
	var models []beneficiaryModel
	if err := s.pg.NewSelect(&models).Scan(ctx); err != nil {
		return fmt.Errorf("medledger/postgres: load beneficiaries: %w", err)
	}
	for i := range models {
		snap.Beneficiaries[models[i].Patient] = models[i].Beneficiary
	}
	return nil
}

func (s *Store) loadAccessRequests(ctx context.Context, snap *state.Snapshot) error {
	var models []accessRequestModel
	err := s.pg.NewSelect(&models).
		OrderExpr("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("medledger/postgres: load access requests: %w", err)
	}
	for i := range models {
		req, err := fromAccessRequestModel(&models[i])
		if err != nil {
			return fmt.Errorf("medledger/postgres: decode access request: %w", err)
		}
		snap.AccessRequests = append(snap.AccessRequests, req)
	}
	return nil
}

func (s *Store) loadInvoices(ctx context.Context, snap *state.Snapshot) error {
	var models []invoiceModel
	err := s.pg.NewSelect(&models).
		OrderExpr("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("medledger/postgres: load invoices: %w", err)
	}
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return fmt.Errorf("medledger/postgres: decode invoice: %w", err)
		}
		snap.Invoices = append(snap.Invoices, inv)
	}
	return nil
}

func (s *Store) loadTips(ctx context.Context, snap *state.Snapshot) error {
	var models []tipModel
	err := s.pg.NewSelect(&models).
		OrderExpr("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("medledger/postgres: load tips: %w", err)
	}
	for i := range models {
		tip, err := fromTipModel(&models[i])
		if err != nil {
			return fmt.Errorf("medledger/postgres: decode tip: %w", err)
		}
		snap.Tips = append(snap.Tips, tip)
	}
	return nil
}

func (s *Store) loadEmergencyLogs(ctx context.Context, snap *state.Snapshot) error {
	var models []emergencyLogModel
	err := s.pg.NewSelect(&models).
		OrderExpr("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("medledger/postgres: load emergency logs: %w", err)
	}
	for i := range models {
		entry, err := fromEmergencyLogModel(&models[i])
		if err != nil {
			return fmt.Errorf("medledger/postgres: decode emergency log: %w", err)
		}
		snap.EmergencyLogs = append(snap.EmergencyLogs, entry)
	}
	return nil
}

func (s *Store) loadTransactions(ctx context.Context, snap *state.Snapshot) error {
	var models []transactionModel
	err := s.pg.NewSelect(&models).
		OrderExpr("seq ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("medledger/postgres: load transactions: %w", err)
	}
	for i := range models {
		tx, err := fromTransactionModel(&models[i])
		if err != nil {
			return fmt.Errorf("medledger/postgres: decode transaction: %w", err)
		}
		snap.Transactions = append(snap.Transactions, tx)
	}
	return nil
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
			return fmt.Errorf("medledger/postgres: save %s: %w", col, err)
		}
	}
	return nil
}

func (s *Store) saveUsers(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*userModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(snap.Users) == 0 {
		return nil
	}
	models := make([]userModel, 0, len(snap.Users))
	for _, u := range snap.Users {
		models = append(models, *toUserModel(u))
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveRecords(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*recordModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
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
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveConsent(ctx context.Context, ledger consent.Ledger) error {
	if _, err := s.pg.NewDelete((*consentModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	var models []consentModel
	for patient, consumers := range ledger {
		for consumer, granted := range consumers {
			models = append(models, consentModel{
				Patient:  patient,
				Consumer: consumer,
				Granted:  granted,
			})
		}
	}
	if len(models) == 0 {
		return nil
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveBeneficiaries(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*beneficiaryModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
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
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveAccessRequests(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*accessRequestModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(snap.AccessRequests) == 0 {
		return nil
	}
	models := make([]accessRequestModel, 0, len(snap.AccessRequests))
	for _, req := range snap.AccessRequests {
		models = append(models, *toAccessRequestModel(req))
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveInvoices(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*invoiceModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(snap.Invoices) == 0 {
		return nil
	}
	models := make([]invoiceModel, 0, len(snap.Invoices))
	for _, inv := range snap.Invoices {
		models = append(models, *toInvoiceModel(inv))
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveTips(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*tipModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(snap.Tips) == 0 {
		return nil
	}
	models := make([]tipModel, 0, len(snap.Tips))
	for _, tip := range snap.Tips {
		models = append(models, toTipModel(tip))
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveEmergencyLogs(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*emergencyLogModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(snap.EmergencyLogs) == 0 {
		return nil
	}
	models := make([]emergencyLogModel, 0, len(snap.EmergencyLogs))
	for _, entry := range snap.EmergencyLogs {
		models = append(models, toEmergencyLogModel(entry))
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) saveTransactions(ctx context.Context, snap *state.Snapshot) error {
	if _, err := s.pg.NewDelete((*transactionModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(snap.Transactions) == 0 {
		return nil
	}
	models := make([]transactionModel, 0, len(snap.Transactions))
	for seq, tx := range snap.Transactions {
		models = append(models, toTransactionModel(seq, tx))
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}
