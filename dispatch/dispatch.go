// Package dispatch maps stable string action names onto Ledger operations.
//
// Transports (HTTP gateways, queue consumers, chain adapters) submit an
// action name plus flat string parameters and receive the operation result
// or a classified error. Action names and error codes are part of the
// external contract and never change meaning across releases.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/medchain/medledger"
)

// Action names accepted by Do.
const (
	ActionRegister               = "register"
	ActionIsRegistered           = "isRegistered"
	ActionGetRole                = "getRole"
	ActionAddBeneficiary         = "addBeneficiary"
	ActionGetBeneficiary         = "getBeneficiary"
	ActionGrantConsent           = "grantConsent"
	ActionRevokeConsent          = "revokeConsent"
	ActionHasConsent             = "hasConsent"
	ActionAddHealthRecord        = "addHealthRecord"
	ActionGetRecordCount         = "getRecordCount"
	ActionGetHealthRecord        = "getHealthRecord"
	ActionGetAllRecords          = "getAllRecords"
	ActionRequestAccess          = "requestAccess"
	ActionGetAccessRequests      = "getAccessRequests"
	ActionRespondToAccessRequest = "respondToAccessRequest"
	ActionCreateInvoice          = "createInvoice"
	ActionGetInvoices            = "getInvoices"
	ActionPayInvoice             = "payInvoice"
	ActionTip                    = "tip"
	ActionBreakGlassAccess       = "breakGlassAccess"
	ActionGetTransactions        = "getTransactions"
	ActionGetEmergencyLogs       = "getEmergencyLogs"
	ActionGetTips                = "getTips"
)

// Handler dispatches named actions to a Ledger.
type Handler struct {
	ledger *medledger.Ledger
}

// New creates a Handler for the given Ledger.
func New(l *medledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

// Do executes the named action with the given flat string parameters.
func (h *Handler) Do(ctx context.Context, action string, params map[string]string) (any, error) {
	switch action {
	case ActionRegister:
		addr, err := need(params, "address")
		if err != nil {
			return nil, err
		}
		role, err := need(params, "role")
		if err != nil {
			return nil, err
		}
		return h.ledger.Register(ctx, addr, role)

	case ActionIsRegistered:
		addr, err := need(params, "address")
		if err != nil {
			return nil, err
		}
		return h.ledger.IsRegistered(ctx, addr), nil

	case ActionGetRole:
		addr, err := need(params, "address")
		if err != nil {
			return nil, err
		}
		return h.ledger.GetRole(ctx, addr).String(), nil

	case ActionAddBeneficiary:
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		beneficiary, err := need(params, "beneficiary")
		if err != nil {
			return nil, err
		}
		return nil, h.ledger.AddBeneficiary(ctx, patient, beneficiary)

	case ActionGetBeneficiary:
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		ben, _ := h.ledger.Beneficiary(ctx, patient)
		return ben, nil

	case ActionGrantConsent:
		patient, consumer, err := pair(params, "patient", "consumer")
		if err != nil {
			return nil, err
		}
		return nil, h.ledger.GrantConsent(ctx, patient, consumer)

	case ActionRevokeConsent:
		patient, consumer, err := pair(params, "patient", "consumer")
		if err != nil {
			return nil, err
		}
		return nil, h.ledger.RevokeConsent(ctx, patient, consumer)

	case ActionHasConsent:
		patient, consumer, err := pair(params, "patient", "consumer")
		if err != nil {
			return nil, err
		}
		return h.ledger.HasConsent(ctx, patient, consumer), nil

	case ActionAddHealthRecord:
		sender, err := need(params, "sender")
		if err != nil {
			return nil, err
		}
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		dataHash, err := need(params, "dataHash")
		if err != nil {
			return nil, err
		}
		return h.ledger.AddHealthRecord(ctx, sender, patient, dataHash, params["recordType"])

	case ActionGetRecordCount:
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		return h.ledger.RecordCount(ctx, patient), nil

	case ActionGetHealthRecord:
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		raw, err := need(params, "index")
		if err != nil {
			return nil, err
		}
		index, err := strconv.Atoi(raw)
		if err != nil {
			return nil, medledger.ValidationError{Field: "index", Message: "must be an integer"}
		}
		return h.ledger.HealthRecordAt(ctx, patient, index)

	case ActionGetAllRecords:
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		return h.ledger.AllRecords(ctx, patient), nil

	case ActionRequestAccess:
		from, to, err := pair(params, "from", "to")
		if err != nil {
			return nil, err
		}
		return h.ledger.RequestAccess(ctx, from, to)

	case ActionGetAccessRequests:
		user, err := need(params, "user")
		if err != nil {
			return nil, err
		}
		return h.ledger.AccessRequestsFor(ctx, user), nil

	case ActionRespondToAccessRequest:
		requestID, err := need(params, "requestId")
		if err != nil {
			return nil, err
		}
		status, err := need(params, "status")
		if err != nil {
			return nil, err
		}
		return nil, h.ledger.RespondToAccessRequest(ctx, requestID, status)

	case ActionCreateInvoice:
		provider, err := need(params, "provider")
		if err != nil {
			return nil, err
		}
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		amount, err := need(params, "amount")
		if err != nil {
			return nil, err
		}
		return h.ledger.CreateInvoice(ctx, provider, patient, amount, params["service"])

	case ActionGetInvoices:
		user, err := need(params, "user")
		if err != nil {
			return nil, err
		}
		return h.ledger.InvoicesFor(ctx, user), nil

	case ActionPayInvoice:
		invoiceID, err := need(params, "invoiceId")
		if err != nil {
			return nil, err
		}
		return h.ledger.PayInvoice(ctx, invoiceID)

	case ActionTip:
		from, to, err := pair(params, "from", "to")
		if err != nil {
			return nil, err
		}
		amount, err := need(params, "amount")
		if err != nil {
			return nil, err
		}
		return h.ledger.Tip(ctx, from, to, amount, params["message"])

	case ActionBreakGlassAccess:
		doctor, err := need(params, "doctor")
		if err != nil {
			return nil, err
		}
		patient, err := need(params, "patient")
		if err != nil {
			return nil, err
		}
		reason, err := need(params, "reason")
		if err != nil {
			return nil, err
		}
		return h.ledger.BreakGlassAccess(ctx, doctor, patient, reason)

	case ActionGetTransactions:
		return h.ledger.Transactions(ctx, params["address"]), nil

	case ActionGetEmergencyLogs:
		return h.ledger.EmergencyLogs(ctx), nil

	case ActionGetTips:
		user, err := need(params, "user")
		if err != nil {
			return nil, err
		}
		return h.ledger.TipsFor(ctx, user), nil

	default:
		return nil, fmt.Errorf("%w: unknown action %q", medledger.ErrNotFound, action)
	}
}

// need returns the named parameter or a ValidationError when absent.
func need(params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", medledger.ValidationError{Field: key, Message: "required"}
	}
	return v, nil
}

func pair(params map[string]string, a, b string) (string, string, error) {
	va, err := need(params, a)
	if err != nil {
		return "", "", err
	}
	vb, err := need(params, b)
	if err != nil {
		return "", "", err
	}
	return va, vb, nil
}

// Error code constants returned by Code.
const (
	CodeAlreadyRegistered = "ALREADY_REGISTERED"
	CodeInvalidRole       = "INVALID_ROLE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeIndexOutOfRange   = "INDEX_OUT_OF_RANGE"
	CodeAlreadyResolved   = "ALREADY_RESOLVED"
	CodeAlreadyPaid       = "ALREADY_PAID"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInternal          = "INTERNAL"
)

// Code classifies an operation error into a stable machine-readable code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, medledger.ErrAlreadyRegistered):
		return CodeAlreadyRegistered
	case errors.Is(err, medledger.ErrInvalidRole):
		return CodeInvalidRole
	case errors.Is(err, medledger.ErrIndexOutOfRange):
		return CodeIndexOutOfRange
	case errors.Is(err, medledger.ErrRequestResolved):
		return CodeAlreadyResolved
	case errors.Is(err, medledger.ErrAlreadyPaid):
		return CodeAlreadyPaid
	case medledger.IsUnauthorized(err):
		return CodeUnauthorized
	case medledger.IsNotFound(err):
		return CodeNotFound
	case medledger.IsValidation(err):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// HTTPStatus maps an operation error to an HTTP status code.
func HTTPStatus(err error) int {
	switch Code(err) {
	case "":
		return http.StatusOK
	case CodeAlreadyRegistered, CodeAlreadyResolved, CodeAlreadyPaid:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidRole, CodeIndexOutOfRange, CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
