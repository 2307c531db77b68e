// Package dataset holds the vocabulary shared by every chart data model in
// this module: nullable numbers, value ranges, change notification and the
// sentinel errors callers match with errors.Is.
//
// Nothing in this package or its dependents is safe for concurrent use. A
// caller that shares a dataset between goroutines must guard it with its own
// lock, one per top-level dataset.
package dataset
