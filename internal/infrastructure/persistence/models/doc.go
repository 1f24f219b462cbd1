// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: base persistence models (BaseModel, TenantAggregateModel)
//   - asset.go: asset categories, assets, depreciation lines and history
//   - ledger.go: journals, periods, moves, move lines, currency rates and sequences
package models
