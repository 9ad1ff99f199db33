// Package core ties the catalog and insight stores together for the web
// and command-line front ends.
//
// # Service
//
// [Service] owns the long-lived collaborators:
//
//   - the SQLite catalog store (tables, columns, users, search, backups)
//   - the PostgreSQL insight store and its CSV importer
//   - the image store for teaser and story images
//   - an [ImportLimiter] bounding concurrent CSV imports
//
// Handlers call the stores directly for plain CRUD and go through the
// Service for anything that needs the limiter, a timeout or a configured
// directory.
//
// # Imports
//
// [Service.ImportInsights] waits for a limiter slot, applies the import
// timeout and runs one batch. Failed rows are reported in the result and
// never abort the batch. [ReadImportText] reads the uploaded file with a
// size limit and replaces invalid UTF-8.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - CAT001-CAT004: missing tables, columns, users and insights
//   - DB001-DB007: constraint and connection errors
//   - VAL000-VAL006: rejected input
//   - FILE001-FILE004: upload size, empty CSV, image type
//   - IMP001-IMP003: import slots, cancellation and timeouts
package core
