package asset

import (
	"fmt"
	"sort"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ScheduleInput carries the ledger-derived facts the schedule depends on
type ScheduleInput struct {
	// ValueResidual is purchase - posted depreciation - salvage
	ValueResidual decimal.Decimal
	// PostedLines are the done and cancel lines of the asset, in any order
	PostedLines []DepreciationLine
	// LastDepreciationDate is the latest ledger date on the depreciation
	// account. Zero means no activity yet; the purchase date is used instead.
	LastDepreciationDate valueobject.Date
}

// Schedule is the result of a board computation
type Schedule struct {
	Anchor       valueobject.Date
	TotalDays    int
	Undone       int
	AmountToDepr decimal.Decimal
	Lines        []DepreciationLine
}

// BuildSchedule computes the draft lines that complete the asset's board.
// Posted lines are never touched; the caller replaces the existing draft
// lines with the returned ones. A zero residual yields an empty schedule.
func BuildSchedule(a *Asset, in ScheduleInput) (*Schedule, error) {
	if err := a.DepreciationParams.Validate(); err != nil {
		return nil, err
	}
	if in.ValueResidual.IsZero() {
		return &Schedule{}, nil
	}

	posted := make([]DepreciationLine, len(in.PostedLines))
	copy(posted, in.PostedLines)
	for i := range posted {
		if !posted[i].IsPosted() {
			return nil, shared.NewDomainErrorf("INVALID_STATE", "Line %s is not posted", posted[i].Label())
		}
	}
	// latest first
	sort.SliceStable(posted, func(i, j int) bool {
		return posted[i].DepreciationDate.After(posted[j].DepreciationDate)
	})

	var residual, amountToDepr decimal.Decimal
	if a.Method == MethodLinear {
		residual = in.ValueResidual.Add(a.SalvageValue)
		amountToDepr = a.PurchaseValue
	} else {
		residual = in.ValueResidual
		amountToDepr = in.ValueResidual
	}

	anchor := scheduleAnchor(a, posted, in.LastDepreciationDate)
	totalDays := DaysInYear(anchor.Year())
	undone := UndoneDotationNumber(a.DepreciationParams, anchor)

	depreciableBase := a.PurchaseValue
	if a.Method != MethodLinear {
		depreciableBase = a.PurchaseValue.Sub(a.SalvageValue)
	}

	schedule := &Schedule{
		Anchor:       anchor,
		TotalDays:    totalDays,
		Undone:       undone,
		AmountToDepr: amountToDepr,
	}

	date := anchor
	for x := len(posted); x < undone; x++ {
		i := x + 1
		var amount decimal.Decimal
		if i == undone {
			amount = residual
		} else {
			amount = a.Currency.Round(periodAmount(a, i, undone, len(posted), residual, amountToDepr, date, totalDays))
		}
		residual = residual.Sub(amount)

		schedule.Lines = append(schedule.Lines, DepreciationLine{
			BaseEntity:       shared.NewBaseEntity(),
			TenantID:         a.TenantID,
			AssetID:          a.ID,
			Name:             fmt.Sprintf("%s/%d", a.LineNamePrefix(), i),
			Sequence:         i,
			Amount:           amount,
			RemainingValue:   residual,
			DepreciatedValue: depreciableBase.Sub(residual.Add(amount)),
			DepreciationDate: date,
			State:            LineStateDraft,
		})
		date = StepMonths(date, a.MethodPeriod)
	}
	return schedule, nil
}

// scheduleAnchor returns the date of the first line to generate
func scheduleAnchor(a *Asset, posted []DepreciationLine, lastDepreciation valueobject.Date) valueobject.Date {
	if a.Prorata {
		if !lastDepreciation.IsZero() {
			return lastDepreciation
		}
		return a.PurchaseDate
	}
	if len(posted) > 0 {
		return StepMonths(posted[0].DepreciationDate, a.MethodPeriod)
	}
	return a.PurchaseDate.FirstOfMonth()
}

// UndoneDotationNumber is the total number of periods of the board. With the
// end time method the periods are counted from anchor up to the ending date;
// prorata adds one trailing stub period.
func UndoneDotationNumber(p DepreciationParams, anchor valueobject.Date) int {
	n := p.MethodNumber
	if p.MethodTime == MethodTimeEnd {
		n = CountPeriodsUntil(anchor, p.MethodEnd, p.MethodPeriod)
	}
	if p.Prorata {
		n++
	}
	return n
}

// periodAmount is the unrounded amount of a non-terminal line
func periodAmount(a *Asset, i, undone, postedCount int, residual, amountToDepr decimal.Decimal, date valueobject.Date, totalDays int) decimal.Decimal {
	var amount decimal.Decimal
	switch a.Method {
	case MethodLinear:
		if a.Prorata {
			amount = amountToDepr.Div(decimal.NewFromInt(int64(a.MethodNumber)))
		} else {
			amount = amountToDepr.Div(decimal.NewFromInt(int64(undone - postedCount)))
		}
	case MethodDegressive:
		amount = residual.Mul(a.MethodProgressFactor)
	}
	if a.Prorata {
		amount = amount.Mul(ProrataFactor(i, undone, date, totalDays))
	}
	return amount
}

// ProrataFactor scales the first period by the share of the year remaining
// after date and the last period by its complement. Other periods are whole.
func ProrataFactor(i, undone int, date valueobject.Date, totalDays int) decimal.Decimal {
	switch i {
	case 1:
		return FirstPeriodFraction(date, totalDays)
	case undone:
		return LastPeriodFraction(date, totalDays)
	}
	return decimal.NewFromInt(1)
}
