package ledger

import (
	"strings"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
)

// JournalType classifies a journal
type JournalType string

const (
	JournalTypeGeneral  JournalType = "general"
	JournalTypePurchase JournalType = "purchase"
	JournalTypeSale     JournalType = "sale"
	JournalTypeCash     JournalType = "cash"
	JournalTypeBank     JournalType = "bank"
)

// IsValid checks if the journal type is known
func (t JournalType) IsValid() bool {
	switch t {
	case JournalTypeGeneral, JournalTypePurchase, JournalTypeSale, JournalTypeCash, JournalTypeBank:
		return true
	}
	return false
}

// String returns the string representation of JournalType
func (t JournalType) String() string {
	return string(t)
}

// Journal groups ledger moves
type Journal struct {
	shared.TenantAggregateRoot
	Code string
	Name string
	Type JournalType
}

// NewJournal creates a journal
func NewJournal(tenantID uuid.UUID, code, name string, journalType JournalType) (*Journal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Journal code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Journal name cannot be empty")
	}
	if !journalType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_JOURNAL_TYPE", "Unknown journal type %q", journalType)
	}
	return &Journal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                journalType,
	}, nil
}

// Rename changes the display name
func (j *Journal) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Journal name cannot be empty")
	}
	j.Name = name
	j.UpdatedAt = time.Now()
	j.IncrementVersion()
	return nil
}
