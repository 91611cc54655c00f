// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free of ORM
// concerns; repositories convert with ToDomain and FromDomain.
//
// Structure:
//   - base.go: shared columns (ID, timestamps, version, tenant)
//   - identity.go: tenants, branches, user profiles
//   - catalog.go: categories, products and their extras
//   - trade.go: orders, order items and the order status lookup table
//   - finance.go: cash registers, cash movements and expenses
package models
