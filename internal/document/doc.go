// Package document models the configuration document corpus that the
// rename engine scans and rewrites.
//
// Documents (automations, scenes, scripts, groups) are opaque
// structured trees: the engine never interprets what a document means,
// it only locates and replaces entity identifiers inside it. The tree
// is a tagged Node variant (mapping, sequence or scalar) with explicit
// Path addressing, so a match found during scanning can be rewritten
// in place later without re-searching.
//
// # Key Types
//
//   - Node: one vertex of a document tree (mapping/sequence/scalar)
//   - Path: the address of a node within a tree, stable across walks
//   - Document: a stored document with its decoded tree
//   - Store: the corpus contract (lazy ForEach, Get, Write)
//   - SQLiteStore: SQLite-backed Store with a JSON content column
//
// # Thread Safety
//
// Node trees are not synchronised. The scanner walks them read-only
// from multiple goroutines, which is safe; mutation (SetScalarValue,
// Set, Append) must be confined to a single goroutine, which the
// strictly sequential execute phase guarantees.
//
// # Usage
//
//	store := document.NewSQLiteStore(db)
//	err := store.ForEach(ctx, []document.Kind{document.KindAutomation}, func(doc *document.Document) error {
//	    doc.Root.Walk(func(p document.Path, n *document.Node) { ... })
//	    return nil
//	})
package document
