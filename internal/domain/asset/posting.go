package asset

import (
	"context"
	"fmt"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingRequest asks for the move of one draft line
type PostingRequest struct {
	Asset           *Asset
	Category        *Category
	Line            *DepreciationLine
	CompanyCurrency valueobject.Currency
	// DateOverride replaces the line date, e.g. the stop date of a closing period
	DateOverride valueobject.Date
}

// PostingResult is a balanced move ready to be persisted
type PostingResult struct {
	Move          *ledger.Move
	Date          valueobject.Date
	CompanyAmount decimal.Decimal
	// Sign is +1 for purchase journals, -1 otherwise. It is reported only;
	// the debit/credit split does not depend on it.
	Sign int
}

// PostingGenerator turns approved depreciation lines into ledger moves
type PostingGenerator struct {
	ledger   LedgerGateway
	currency CurrencyConverter
}

// NewPostingGenerator creates a PostingGenerator
func NewPostingGenerator(ledgerGateway LedgerGateway, currency CurrencyConverter) *PostingGenerator {
	return &PostingGenerator{ledger: ledgerGateway, currency: currency}
}

// Generate builds the two-line move of a draft line. It does not persist
// anything. Manually valued assets yield ErrManualValuationSkip.
func (g *PostingGenerator) Generate(ctx context.Context, req PostingRequest) (*PostingResult, error) {
	a, line := req.Asset, req.Line
	if a == nil || line == nil || req.Category == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset, category and line are required")
	}
	if line.AssetID != a.ID {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "Line %s does not belong to asset %s", line.Label(), a.Name)
	}
	if !a.IsOpen() {
		return nil, shared.NewDomainErrorf(CodeAssetNotOpen, "The asset %s must be in open state", a.Name)
	}
	if a.Valuation == ValuationManual {
		return nil, ErrManualValuationSkip
	}
	if line.State != LineStateDraft {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Depreciation line %s is already %s", line.Label(), line.State)
	}

	date := line.DepreciationDate
	if !req.DateOverride.IsZero() {
		date = req.DateOverride
	}

	accounts, err := ResolvePostingAccounts(a, req.Category)
	if err != nil {
		return nil, err
	}

	var periodID uuid.UUID
	if line.PeriodID != nil {
		periodID = *line.PeriodID
	} else {
		periodID, err = g.ledger.FindPeriodCovering(ctx, a.TenantID, date)
		if err != nil {
			return nil, err
		}
	}

	amount, err := g.currency.Convert(ctx, a.TenantID, a.Currency, req.CompanyCurrency, line.Amount, date)
	if err != nil {
		return nil, err
	}
	amount = req.CompanyCurrency.Round(amount)

	journalType, err := g.ledger.JournalType(ctx, a.TenantID, accounts.JournalID)
	if err != nil {
		return nil, err
	}

	move, err := BuildDepreciationMove(MoveInput{
		Asset:           a,
		Line:            line,
		Accounts:        accounts,
		PeriodID:        periodID,
		Date:            date,
		CompanyAmount:   amount,
		CompanyCurrency: req.CompanyCurrency,
	})
	if err != nil {
		return nil, err
	}

	return &PostingResult{
		Move:          move,
		Date:          date,
		CompanyAmount: amount,
		Sign:          JournalSign(journalType),
	}, nil
}

// JournalSign returns +1 for purchase journals and -1 otherwise
func JournalSign(t ledger.JournalType) int {
	if t == ledger.JournalTypePurchase {
		return 1
	}
	return -1
}

// PostingAccounts are the resolved references of a depreciation move
type PostingAccounts struct {
	JournalID                    uuid.UUID
	DepreciationAccountID        uuid.UUID
	ExpenseDepreciationAccountID uuid.UUID
	AnalyticAccountID            *uuid.UUID
}

// DepreciationAccount is the account the asset's depreciation is posted to,
// its own or else the category's. c may be nil.
func (a *Asset) DepreciationAccount(c *Category) *uuid.UUID {
	if c == nil {
		return firstID(a.DepreciationAccountID)
	}
	return a.Accounts.Merge(c.Accounts).DepreciationAccountID
}

// ResolvePostingAccounts prefers the asset's references and falls back to the category's
func ResolvePostingAccounts(a *Asset, c *Category) (PostingAccounts, error) {
	merged := a.Accounts.Merge(c.Accounts)
	if merged.JournalID == nil {
		return PostingAccounts{}, shared.NewDomainErrorf(CodeMissingAccount, "No journal configured for asset %s", a.Name)
	}
	if merged.DepreciationAccountID == nil {
		return PostingAccounts{}, shared.NewDomainErrorf(CodeMissingAccount, "No depreciation account configured for asset %s", a.Name)
	}
	if merged.ExpenseDepreciationAccountID == nil {
		return PostingAccounts{}, shared.NewDomainErrorf(CodeMissingAccount, "No depreciation expense account configured for asset %s", a.Name)
	}
	return PostingAccounts{
		JournalID:                    *merged.JournalID,
		DepreciationAccountID:        *merged.DepreciationAccountID,
		ExpenseDepreciationAccountID: *merged.ExpenseDepreciationAccountID,
		AnalyticAccountID:            merged.AnalyticAccountID,
	}, nil
}

// MoveInput holds everything BuildDepreciationMove needs
type MoveInput struct {
	Asset           *Asset
	Line            *DepreciationLine
	Accounts        PostingAccounts
	PeriodID        uuid.UUID
	Date            valueobject.Date
	CompanyAmount   decimal.Decimal
	CompanyCurrency valueobject.Currency
}

// BuildDepreciationMove creates the balanced accumulated/expense move. A
// positive amount credits the depreciation account and debits the expense
// account; anything else is mirrored.
func BuildDepreciationMove(in MoveInput) (*ledger.Move, error) {
	a, line := in.Asset, in.Line
	move, err := ledger.NewMove(a.TenantID, in.Accounts.JournalID, in.PeriodID, in.Date, a.Name)
	if err != nil {
		return nil, err
	}

	var debit, credit decimal.Decimal
	if in.CompanyCurrency.Compare(in.CompanyAmount, decimal.Zero) > 0 {
		credit = in.CompanyAmount
	} else {
		debit = in.CompanyAmount.Neg()
	}

	var currency valueobject.Currency
	var amountCurrency decimal.Decimal
	foreign := a.Currency != in.CompanyCurrency
	if foreign {
		currency = a.Currency
		amountCurrency = line.Amount
	}

	assetID := a.ID
	accumulated := ledger.MoveLine{
		Name:              fmt.Sprintf("%s Accumulated Depreciation", line.Label()),
		Ref:               a.Name,
		AccountID:         in.Accounts.DepreciationAccountID,
		Debit:             debit,
		Credit:            credit,
		AmountCurrency:    amountCurrency.Neg(),
		CurrencyCode:      currency,
		PartnerID:         a.PartnerID,
		AnalyticAccountID: in.Accounts.AnalyticAccountID,
		JournalID:         in.Accounts.JournalID,
		PeriodID:          in.PeriodID,
		Date:              in.Date,
		AssetID:           &assetID,
	}
	expense := ledger.MoveLine{
		Name:              fmt.Sprintf("%s Expense Depreciation", line.Label()),
		Ref:               a.Name,
		AccountID:         in.Accounts.ExpenseDepreciationAccountID,
		Debit:             credit,
		Credit:            debit,
		AmountCurrency:    amountCurrency,
		CurrencyCode:      currency,
		PartnerID:         a.PartnerID,
		AnalyticAccountID: in.Accounts.AnalyticAccountID,
		JournalID:         in.Accounts.JournalID,
		PeriodID:          in.PeriodID,
		Date:              in.Date,
		AssetID:           &assetID,
	}
	if err := move.AddLine(accumulated); err != nil {
		return nil, err
	}
	if err := move.AddLine(expense); err != nil {
		return nil, err
	}
	if err := move.Validate(in.CompanyCurrency); err != nil {
		return nil, err
	}
	return move, nil
}
