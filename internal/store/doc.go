// Package store implements the contact filter store: the full record set, the current query, the derived filtered
// view and a one-shot selection used to restore the scroll position once a filter is cleared.
//
// # State
//
// A [Store] holds three independent pieces of state:
//   - Dataset: the records from the last successful load, replaced wholesale and never mutated in place
//   - Query: the raw text typed by the user; matching uses its lower-cased form
//   - Selection: at most one record ID, set by [Store.Select] and cleared by [Store.ConsumeSelection]
//
// The filtered view is derived from Dataset and Query after every change and always preserves Dataset order.
//
// # Loading
//
// [Store.Load] runs a [services.Source] synchronously. Presentation layers that fetch on another goroutine use the
// split form instead: [Store.BeginLoad] before dispatching the fetch and [Store.Finish] with its outcome.
// A failed load is terminal: [Store.Err] reports an error wrapping [shared.ErrFetch] and nothing is retried.
//
// # Concurrency
//
// The store is not safe for concurrent use. Callers process one event at a time and serialize loads.
package store
