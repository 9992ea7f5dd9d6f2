// Package models defines the core domain models for MediaLog.
//
// # Models
//
//   - User: a registered account; items are scoped to their owner
//   - Item: one entry in a user's collection (a game, a book, a film)
//   - Category: the kind of shelf an item sits on ("Game", "Book")
//   - Tag, Creator: global catalogs associated many-to-many with items
//
// # Associations
//
// The API reports an item's tags and creators as name lists, while writes
// are keyed by catalog IDs. Bridging the two is the job of the selection and
// editor packages; models only carries both shapes.
package models
