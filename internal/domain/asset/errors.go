package asset

import (
	"errors"

	"github.com/erp/depreciation/internal/domain/shared"
)

// Asset error codes
const (
	CodeInvalidScheduleConfiguration = "INVALID_SCHEDULE_CONFIGURATION"
	CodeAssetNotOpen                 = "ASSET_NOT_OPEN"
	CodeHasPostedEntries             = "HAS_POSTED_ENTRIES"
	CodeInvalidCategory              = "INVALID_CATEGORY"
	CodeRecursiveAsset               = "RECURSIVE_ASSET"
	CodeMissingAccount               = "MISSING_ACCOUNT"
)

var (
	ErrAssetNotOpen     = shared.NewDomainError(CodeAssetNotOpen, "The asset must be in open state")
	ErrHasPostedEntries = shared.NewDomainError(CodeHasPostedEntries, "You cannot delete an asset that contains posted depreciation lines")
	ErrRecursiveAsset   = shared.NewDomainError(CodeRecursiveAsset, "You cannot create recursive assets")
	ErrInvalidCategory  = shared.NewDomainError(CodeInvalidCategory, "Assets can only reference normal categories")

	// ErrManualValuationSkip signals that a line belongs to a manually valued
	// asset and no move was generated. Callers skip the line.
	ErrManualValuationSkip = errors.New("asset valuation is manual, posting skipped")
)

func invalidSchedule(format string, args ...any) *shared.DomainError {
	return shared.NewDomainErrorf(CodeInvalidScheduleConfiguration, format, args...)
}
