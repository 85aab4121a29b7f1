// Package store provides persistent storage for amld-site using MongoDB.
//
// # Architecture
//
// The package exposes a single Store interface with two implementations:
//
//   - MongoStore: the production implementation, backed by MongoDB
//   - MockStore: an in-memory implementation for unit tests
//
// MongoStore does not hold a client directly. It goes through a ConnCache,
// which memoizes one MongoDB client for the process lifetime and guarantees
// that concurrent requests arriving before the first connection resolves
// share a single establishment attempt. The cache is constructed once at
// startup and passed in explicitly; there are no package-level globals.
//
// # Data Models
//
//   - Credential: administrator account (bootstrap-only creation)
//   - BlogPost: article with title/content/author and optional image URL
//   - SiteSettings: singleton record holding the TikTok embed URL
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrDuplicateUser: Email or username already taken
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	st := store.NewMockStore()
//	// st implements Store
//
// ConnCache takes an injectable dial function, so its single-attempt
// guarantee is testable without a running MongoDB.
package store
