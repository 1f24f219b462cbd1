package ledger

import (
	"strings"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PeriodState is the state of an accounting period
type PeriodState string

const (
	PeriodStateOpen PeriodState = "open"
	PeriodStateDone PeriodState = "done"
)

// IsValid checks if the period state is known
func (s PeriodState) IsValid() bool {
	return s == PeriodStateOpen || s == PeriodStateDone
}

// Period is an accounting period. Special periods (opening/closing) are never
// returned by date lookups.
type Period struct {
	shared.TenantAggregateRoot
	Code      string
	Name      string
	DateStart valueobject.Date
	DateStop  valueobject.Date
	Special   bool
	State     PeriodState
}

// NewPeriod creates an open period covering [start, stop]
func NewPeriod(tenantID uuid.UUID, code, name string, start, stop valueobject.Date) (*Period, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Period code cannot be empty")
	}
	if start.IsZero() || stop.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period start and stop dates are required")
	}
	if stop.Before(start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period stop date cannot precede its start date")
	}
	if strings.TrimSpace(name) == "" {
		name = code
	}
	return &Period{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		DateStart:           start,
		DateStop:            stop,
		State:               PeriodStateOpen,
	}, nil
}

// Contains reports whether the date falls inside the period
func (p *Period) Contains(d valueobject.Date) bool {
	return d.Between(p.DateStart, p.DateStop)
}

// IsOpen reports whether moves may still be posted in the period
func (p *Period) IsOpen() bool {
	return p.State == PeriodStateOpen
}

// Close marks the period done
func (p *Period) Close() error {
	if p.State == PeriodStateDone {
		return shared.NewDomainError("INVALID_STATE", "Period is already closed")
	}
	p.State = PeriodStateDone
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Reopen marks a closed period open again
func (p *Period) Reopen() error {
	if p.State == PeriodStateOpen {
		return shared.NewDomainError("INVALID_STATE", "Period is already open")
	}
	p.State = PeriodStateOpen
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
