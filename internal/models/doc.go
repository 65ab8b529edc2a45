// Package models defines the user record shared by the data source, the filter store and the presentation layers.
//
// A [Record] is immutable after creation and identified by its ID, which is unique within a single load.
// [Record.Matches] is the one match predicate used for filtering: an unanchored, lower-cased substring test over
// the first name, last name and email. [Suggest] finds near misses by edit distance for queries that match nothing.
package models
