package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	UniqueViolationCode = "23505"
)

const (
	UniqueEmailConstraint       = "users_email_key"
	UniqueOpenDisputeConstraint = "disputes_one_open_per_order"
)

var ErrRecordNotFound = pgx.ErrNoRows

// Guard failures of the order state machine and the ledger.
// All of them leave order and ledger state untouched.
var (
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrTokenAlreadyConsumed = errors.New("token has already been consumed")
	ErrTokenMismatch        = errors.New("token does not match")
	ErrPaymentFailure       = errors.New("payment capture failed")
	ErrDuplicateLedgerEntry = errors.New("duplicate ledger entry")
	ErrRefundExceedsPayment = errors.New("refund exceeds captured payment")
	ErrInvalidLedgerState   = errors.New("invalid ledger state")
)

// IsFatalLedgerError reports whether err indicates corrupted order history
// that must be surfaced to an operator instead of retried. An over-refund
// request is not fatal: it comes from user input and is rejected upfront.
func IsFatalLedgerError(err error) bool {
	return errors.Is(err, ErrInvalidLedgerState)
}

// ErrorDescription returns the error code and constraint name from a Postgres error.
func ErrorDescription(err error) (errCode string, constraintName string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}

	return
}
