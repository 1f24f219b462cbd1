package ledger

import "github.com/erp/depreciation/internal/domain/shared"

// Ledger error codes
const (
	CodeUnbalancedMove = "UNBALANCED_MOVE"
	CodePeriodNotFound = "PERIOD_NOT_FOUND"
	CodeRateNotFound   = "RATE_NOT_FOUND"
	CodePeriodClosed   = "PERIOD_CLOSED"
)

var (
	ErrUnbalancedMove = shared.NewDomainError(CodeUnbalancedMove, "Move debit and credit totals do not match")
	ErrPeriodNotFound = shared.NewDomainError(CodePeriodNotFound, "No open accounting period covers the date")
	ErrRateNotFound   = shared.NewDomainError(CodeRateNotFound, "No currency rate found for the date")
	ErrPeriodClosed   = shared.NewDomainError(CodePeriodClosed, "Accounting period is closed")
)
