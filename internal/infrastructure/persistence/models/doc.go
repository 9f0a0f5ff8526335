// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Nested values (lines, features, terms, id lists) are stored as JSON columns
// through gorm.io/datatypes, which picks jsonb on PostgreSQL and JSON text on SQLite.
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel, AuthoredAggregateModel)
// - catalog.go: Services, packages and contract terms
// - client.go: Clients and their segments, competitors and branches
// - document.go: Quotations, campaign plans, contracts and document sequences
// - identity.go: Users
// - audit.go: Audit log entries
package models
