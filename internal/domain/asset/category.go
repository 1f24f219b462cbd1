package asset

import (
	"strings"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
)

// maxCompleteNameDepth is how many ancestors CompleteName renders before "..."
const maxCompleteNameDepth = 6

// Category is a template of depreciation defaults. Its values are copied into
// an asset when the category is applied and never read live while scheduling.
type Category struct {
	shared.TenantAggregateRoot
	Name     string
	Type     CategoryType
	ParentID *uuid.UUID
	Note     string
	// OpenAsset validates assets right after creation
	OpenAsset bool
	DepreciationParams
	Accounts
}

// NewCategory creates a normal category with the default parameters
func NewCategory(tenantID uuid.UUID, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Type:                CategoryTypeNormal,
		DepreciationParams:  DefaultDepreciationParams(),
	}, nil
}

// SetType changes between view and normal
func (c *Category) SetType(t CategoryType) error {
	if !t.IsValid() {
		return shared.NewDomainErrorf(CodeInvalidCategory, "Unknown category type %q", t)
	}
	c.Type = t
	c.touch()
	return nil
}

// SetParent attaches the category under a view category
func (c *Category) SetParent(parent *Category) error {
	if parent == nil {
		c.ParentID = nil
		c.touch()
		return nil
	}
	if parent.ID == c.ID {
		return shared.NewDomainError(CodeInvalidCategory, "A category cannot be its own parent")
	}
	if parent.Type != CategoryTypeView {
		return shared.NewDomainErrorf(CodeInvalidCategory, "Parent category %s must be a view category", parent.Name)
	}
	if !parent.BelongsTo(c.TenantID) {
		return shared.ErrNotFound
	}
	id := parent.ID
	c.ParentID = &id
	c.touch()
	return nil
}

// SetDepreciationParams replaces the default parameters
func (c *Category) SetDepreciationParams(params DepreciationParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	c.DepreciationParams = params
	c.touch()
	return nil
}

// SetAccounts replaces the ledger references. A missing depreciation or
// revaluation account defaults to the asset account.
func (c *Category) SetAccounts(accounts Accounts) {
	if accounts.AssetAccountID != nil {
		accounts.DepreciationAccountID = firstID(accounts.DepreciationAccountID, accounts.AssetAccountID)
		accounts.RevaluationAccountID = firstID(accounts.RevaluationAccountID, accounts.AssetAccountID)
	}
	c.Accounts = accounts
	c.touch()
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = strings.TrimSpace(name)
	c.touch()
	return nil
}

// IsAssignable reports whether assets may reference the category
func (c *Category) IsAssignable() bool {
	return c.Type == CategoryTypeNormal
}

func (c *Category) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CompleteName renders "root / ... / leaf". Ancestors are resolved through
// parents; beyond six levels the remaining path is shown as "...".
func CompleteName(c *Category, parents map[uuid.UUID]*Category) string {
	return completeName(c, parents, maxCompleteNameDepth)
}

func completeName(c *Category, parents map[uuid.UUID]*Category, level int) string {
	if level <= 0 {
		return "..."
	}
	if c.ParentID == nil {
		return c.Name
	}
	parent, ok := parents[*c.ParentID]
	if !ok || parent == nil {
		return c.Name
	}
	return completeName(parent, parents, level-1) + " / " + c.Name
}
