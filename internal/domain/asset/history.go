package asset

import (
	"strings"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// History records a change of depreciation parameters. Entries are append-only.
type History struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	AssetID      uuid.UUID
	Name         string
	User         string
	Date         valueobject.Date
	MethodTime   MethodTime
	MethodNumber int
	MethodPeriod int
	MethodEnd    valueobject.Date
	Note         string
}

// NewHistory snapshots the asset's current time parameters
func NewHistory(a *Asset, name, user, note string, date valueobject.Date) (*History, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "History date is required")
	}
	if strings.TrimSpace(name) == "" {
		name = "Depreciation change"
	}
	return &History{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     a.TenantID,
		AssetID:      a.ID,
		Name:         name,
		User:         user,
		Date:         date,
		MethodTime:   a.MethodTime,
		MethodNumber: a.MethodNumber,
		MethodPeriod: a.MethodPeriod,
		MethodEnd:    a.MethodEnd,
		Note:         note,
	}, nil
}
