package csvimport

import (
	"errors"
	"fmt"
	"io"

	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Currency rate columns
const (
	ColumnCurrency      = "currency"
	ColumnRate          = "rate"
	ColumnEffectiveDate = "effective_date"
)

// RateRecord is one valid row of a currency rate file
type RateRecord struct {
	Row           int
	Currency      valueobject.Currency
	Rate          decimal.Decimal
	EffectiveDate valueobject.Date
}

// ReadCurrencyRates parses a currency,rate,effective_date file. Valid rows are
// returned in file order; invalid rows are reported in the collection and
// left out. A rate is units of the currency per company currency unit.
func ReadCurrencyRates(r io.Reader, maxErrors int) ([]RateRecord, *ErrorCollection, error) {
	p, err := NewParser(r)
	if err != nil {
		return nil, nil, err
	}
	if missing := p.MissingHeaders(ColumnCurrency, ColumnRate, ColumnEffectiveDate); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: missing columns %v", ErrMissingHeader, missing)
	}

	errs := NewErrorCollection(maxErrors)
	seen := make(map[string]int)
	var records []RateRecord
	dataRows := 0

	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs.Add(RowError{Row: p.currentRow, Code: ErrCodeMalformedRow, Message: err.Error()})
			continue
		}
		if row.IsEmpty() {
			continue
		}
		dataRows++

		rec, ok := parseRateRow(row, errs)
		if !ok {
			continue
		}
		key := string(rec.Currency) + "@" + rec.EffectiveDate.String()
		if first, dup := seen[key]; dup {
			errs.Add(RowError{
				Row:     row.LineNumber,
				Column:  ColumnEffectiveDate,
				Code:    ErrCodeDuplicateInFile,
				Message: fmt.Sprintf("duplicate of row %d", first),
				Value:   key,
			})
			continue
		}
		seen[key] = row.LineNumber
		records = append(records, rec)
	}

	if dataRows == 0 {
		return nil, errs, ErrNoDataRows
	}
	return records, errs, nil
}

func parseRateRow(row *Row, errs *ErrorCollection) (RateRecord, bool) {
	rec := RateRecord{Row: row.LineNumber}
	ok := true

	fail := func(column, code, message string) {
		errs.Add(RowError{Row: row.LineNumber, Column: column, Code: code, Message: message, Value: row.Get(column)})
		ok = false
	}

	if v := row.Get(ColumnCurrency); v == "" {
		fail(ColumnCurrency, ErrCodeRequiredField, "currency is required")
	} else if c, err := valueobject.ParseCurrency(v); err != nil {
		fail(ColumnCurrency, ErrCodeInvalidFormat, "currency must be a three-letter code")
	} else {
		rec.Currency = c
	}

	if v := row.Get(ColumnRate); v == "" {
		fail(ColumnRate, ErrCodeRequiredField, "rate is required")
	} else if d, err := decimal.NewFromString(v); err != nil {
		fail(ColumnRate, ErrCodeInvalidFormat, "rate must be a decimal number")
	} else if !d.IsPositive() {
		fail(ColumnRate, ErrCodeInvalidRange, "rate must be positive")
	} else {
		rec.Rate = d
	}

	if v := row.Get(ColumnEffectiveDate); v == "" {
		fail(ColumnEffectiveDate, ErrCodeRequiredField, "effective_date is required")
	} else if d, err := valueobject.ParseDate(v); err != nil {
		fail(ColumnEffectiveDate, ErrCodeInvalidFormat, "effective_date must be YYYY-MM-DD")
	} else {
		rec.EffectiveDate = d
	}

	return rec, ok
}
