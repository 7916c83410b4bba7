// Package store provides persistent storage for picstash using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with per-concern
// interfaces:
//
//   - CredentialStore: Credentials and user profiles (registration, lookup)
//   - ImageStore: Gallery images (create, fetch, rename, list with owner join)
//
// SQLiteStore implements both interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries. The storage
// layer is the single source of truth: the UNIQUE constraint on
// credentials.username is what guarantees at most one winner when two
// registrations race on the same name.
//
// # Data Models
//
//   - Credential: Username plus bcrypt password hash, created at registration
//   - UserProfile: Storage-visible projection of a user, keyed by username
//   - Image: Gallery image; OwnerUsername is immutable after creation
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrUsernameTaken: Registration hit the username uniqueness constraint
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewSQLiteStore(":memory:") for tests with real SQLite.
package store
