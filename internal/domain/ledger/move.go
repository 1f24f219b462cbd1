package ledger

import (
	"fmt"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoveState is the posting state of a move
type MoveState string

const (
	MoveStateDraft  MoveState = "draft"
	MoveStatePosted MoveState = "posted"
)

// DefaultMoveName is the name given to moves before numbering
const DefaultMoveName = "/"

// MoveLine is one side of a double-entry move
type MoveLine struct {
	ID                uuid.UUID
	MoveID            uuid.UUID
	Name              string
	Ref               string
	AccountID         uuid.UUID
	Debit             decimal.Decimal
	Credit            decimal.Decimal
	AmountCurrency    decimal.Decimal
	CurrencyCode      valueobject.Currency // set only when the amount is in a foreign currency
	PartnerID         *uuid.UUID
	AnalyticAccountID *uuid.UUID
	JournalID         uuid.UUID
	PeriodID          uuid.UUID
	Date              valueobject.Date
	AssetID           *uuid.UUID
}

// Balance returns debit minus credit
func (l *MoveLine) Balance() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// Move is a journal entry. A move is created complete; its lines are never
// edited after creation, only deleted together with the move.
type Move struct {
	shared.TenantAggregateRoot
	Name      string
	Ref       string
	JournalID uuid.UUID
	PeriodID  uuid.UUID
	Date      valueobject.Date
	State     MoveState
	Lines     []MoveLine
}

// NewMove creates a draft move header
func NewMove(tenantID uuid.UUID, journalID, periodID uuid.UUID, date valueobject.Date, ref string) (*Move, error) {
	if journalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOURNAL", "Move journal is required")
	}
	if periodID == uuid.Nil {
		return nil, ErrPeriodNotFound
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Move date is required")
	}
	return &Move{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                DefaultMoveName,
		Ref:                 ref,
		JournalID:           journalID,
		PeriodID:            periodID,
		Date:                date,
		State:               MoveStateDraft,
	}, nil
}

// AddLine appends a line to the move. Exactly one of debit and credit may be
// non-zero and neither may be negative.
func (m *Move) AddLine(line MoveLine) error {
	if line.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Move line account is required")
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Move line debit and credit cannot be negative")
	}
	if line.Debit.IsPositive() && line.Credit.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Move line cannot carry both debit and credit")
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	line.MoveID = m.ID
	if line.Date.IsZero() {
		line.Date = m.Date
	}
	if line.PeriodID == uuid.Nil {
		line.PeriodID = m.PeriodID
	}
	m.Lines = append(m.Lines, line)
	m.UpdatedAt = time.Now()
	return nil
}

// TotalDebit sums the debit side
func (m *Move) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for i := range m.Lines {
		total = total.Add(m.Lines[i].Debit)
	}
	return total
}

// TotalCredit sums the credit side
func (m *Move) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for i := range m.Lines {
		total = total.Add(m.Lines[i].Credit)
	}
	return total
}

// IsBalanced reports whether debits equal credits at the given precision
func (m *Move) IsBalanced(currency valueobject.Currency) bool {
	return currency.IsZero(m.TotalDebit().Sub(m.TotalCredit()))
}

// Validate checks the move can be persisted: at least two lines, balanced
func (m *Move) Validate(currency valueobject.Currency) error {
	if len(m.Lines) < 2 {
		return shared.NewDomainErrorf(CodeUnbalancedMove, "Move %s must have at least two lines", m.Ref)
	}
	if !m.IsBalanced(currency) {
		return shared.NewDomainError(CodeUnbalancedMove,
			fmt.Sprintf("Move %s is unbalanced: debit %s, credit %s",
				m.Ref, m.TotalDebit().StringFixed(currency.Decimals()), m.TotalCredit().StringFixed(currency.Decimals())))
	}
	return nil
}

// Post marks the move posted
func (m *Move) Post(currency valueobject.Currency) error {
	if m.State == MoveStatePosted {
		return shared.NewDomainError("INVALID_STATE", "Move is already posted")
	}
	if err := m.Validate(currency); err != nil {
		return err
	}
	m.State = MoveStatePosted
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}
