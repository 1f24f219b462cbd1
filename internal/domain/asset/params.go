package asset

import (
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category defaults
const (
	DefaultMethodNumber = 5
	DefaultMethodPeriod = 1
)

// DefaultProgressFactor is the degressive factor applied when none is given (30%)
var DefaultProgressFactor = decimal.NewFromFloat(0.30)

// DepreciationParams are the schedule parameters shared by categories and assets
type DepreciationParams struct {
	Method               Method
	MethodNumber         int
	MethodPeriod         int // months between two depreciations
	MethodTime           MethodTime
	MethodEnd            valueobject.Date
	MethodProgressFactor decimal.Decimal // fraction, 0.30 means 30%
	Prorata              bool
}

// DefaultDepreciationParams returns the category defaults
func DefaultDepreciationParams() DepreciationParams {
	return DepreciationParams{
		Method:               MethodDegressive,
		MethodNumber:         DefaultMethodNumber,
		MethodPeriod:         DefaultMethodPeriod,
		MethodTime:           MethodTimeNumber,
		MethodProgressFactor: DefaultProgressFactor,
	}
}

// Validate reports malformed parameters as INVALID_SCHEDULE_CONFIGURATION
func (p DepreciationParams) Validate() error {
	if !p.Method.IsValid() {
		return invalidSchedule("Unknown depreciation method %q", p.Method)
	}
	if !p.MethodTime.IsValid() {
		return invalidSchedule("Unknown time method %q", p.MethodTime)
	}
	if p.MethodPeriod <= 0 {
		return invalidSchedule("Period length must be a positive number of months, got %d", p.MethodPeriod)
	}
	if p.MethodTime == MethodTimeEnd {
		if p.MethodEnd.IsZero() {
			return invalidSchedule("Ending date is required when the time method is %q", MethodTimeEnd)
		}
		// prorata divides by method_number even when counting to an end date
		if p.Prorata && p.MethodNumber <= 0 {
			return invalidSchedule("Number of depreciations must be positive for prorata assets")
		}
	} else if p.MethodNumber <= 0 {
		return invalidSchedule("Number of depreciations must be positive, got %d", p.MethodNumber)
	}
	if p.Method == MethodDegressive {
		if !p.MethodProgressFactor.IsPositive() || p.MethodProgressFactor.GreaterThan(decimal.NewFromInt(1)) {
			return invalidSchedule("Degressive factor must be in (0, 1], got %s", p.MethodProgressFactor.String())
		}
	}
	return nil
}

// Equal compares two parameter sets
func (p DepreciationParams) Equal(other DepreciationParams) bool {
	return p.Method == other.Method &&
		p.MethodNumber == other.MethodNumber &&
		p.MethodPeriod == other.MethodPeriod &&
		p.MethodTime == other.MethodTime &&
		p.MethodEnd.Equal(other.MethodEnd) &&
		p.MethodProgressFactor.Equal(other.MethodProgressFactor) &&
		p.Prorata == other.Prorata
}

// Accounts are the ledger references used when posting depreciation
type Accounts struct {
	JournalID                    *uuid.UUID
	AssetAccountID               *uuid.UUID
	DepreciationAccountID        *uuid.UUID
	ExpenseDepreciationAccountID *uuid.UUID
	RevaluationAccountID         *uuid.UUID
	AnalyticAccountID            *uuid.UUID
}

// Merge keeps a's references and fills the missing ones from fallback
func (a Accounts) Merge(fallback Accounts) Accounts {
	return Accounts{
		JournalID:                    firstID(a.JournalID, fallback.JournalID),
		AssetAccountID:               firstID(a.AssetAccountID, fallback.AssetAccountID),
		DepreciationAccountID:        firstID(a.DepreciationAccountID, fallback.DepreciationAccountID),
		ExpenseDepreciationAccountID: firstID(a.ExpenseDepreciationAccountID, fallback.ExpenseDepreciationAccountID),
		RevaluationAccountID:         firstID(a.RevaluationAccountID, fallback.RevaluationAccountID),
		AnalyticAccountID:            firstID(a.AnalyticAccountID, fallback.AnalyticAccountID),
	}
}

func firstID(ids ...*uuid.UUID) *uuid.UUID {
	for _, id := range ids {
		if id != nil && *id != uuid.Nil {
			return id
		}
	}
	return nil
}
