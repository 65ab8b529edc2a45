// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a single screen over a [store.Store]: a search bar on top, the filtered list of users below and a
// short help line. Every keystroke in the search bar becomes a query on the store; pressing enter on a list item
// selects it, clears the query and scrolls the restored full list back to that user.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg
// union type. Loading happens once at startup behind a spinner; a failed load is terminal and only quitting is
// possible from the error screen.
package ui
