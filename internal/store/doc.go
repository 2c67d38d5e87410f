// Package store is the document store over the tutorbook aggregate.
//
// Every operation is a read-modify-write of the whole aggregate through the
// backend Selector:
//   - Load the aggregate and its revision
//   - Mutate the in-memory copy
//   - Write it back, failing with CONFLICT if the stored revision moved
//
// The store is built for one active writer. The revision check turns a lost
// update into an error; callers may re-issue the operation.
//
// # Cascades
//
// The primitives Insert, Replace and Remove never cascade. The entity
// operations do:
//   - Student rename: attendance, invoices (with display name), progress
//     reports, transactions and class memberships follow the new id
//   - Student delete: memberships, attendance, invoices, progress reports and
//     transactions are purged
//   - Teacher rename/delete: class teacher lists and payroll rows follow
//   - Class rename/delete: attendance, progress reports and class-scoped
//     announcements follow
//
// Class membership lists are not checked against the student and teacher
// collections; dangling ids are tolerated and logged.
package store
