// Package core holds the lead ingestion and batch-mutation logic: CSV import
// with duplicate policies, CSV export, bulk delete, and bulk assign.
//
// The package has no storage engine. It talks to a [LeadStore] and a
// [MemberDirectory] and owns only the decisions and the accounting around
// their calls, so the same [Service] serves the HTTP API, the leadctl CLI,
// and tests with an in-memory store.
//
// # Import pipeline
//
// [Service.Import] parses the payload with the csv package, then walks the
// data rows strictly in file order:
//
//  1. [NormalizeRow] maps header aliases to canonical keys and cleans cells.
//  2. [ValidateRow] checks FirstName, LastName, and Phone are present and
//     that typed cells (budget, bedrooms, enumerations) parse.
//  3. [DuplicateResolver.Resolve] looks the phone up within the tenant and
//     creates, skips, rejects, or merges according to the [DuplicatePolicy].
//
// Every row lands in exactly one of success, failed, or skipped in the
// [ImportResult]. Per-row problems are data in the result; only call-level
// problems (malformed CSV, unknown policy, inactive default assignee) are
// returned as errors.
//
// # Bulk operations
//
// [Service.BulkDelete] and [Service.BulkAssign] check each id for existence
// and tenant ownership before mutating it, recording "Lead not found" or
// "Access denied" per id in a [BatchOperationResult].
//
// # Concurrency
//
// Imports and bulk calls of one tenant are serialized with a [TenantLocker],
// which closes the window where two simultaneous imports both miss the same
// phone. Service-wide import concurrency is bounded by an [ImportLimiter].
//
// # Error codes
//
// [MapError] turns call-level errors into a [UserMessage] with a support
// code (IMP, ASN, BLK, EXP, DB, UPL, RATE, ERR000).
package core
