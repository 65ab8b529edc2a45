package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/roster/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRecordsLoaded MsgKind = iota
)

type recordsPayload struct {
	records []models.Record
	err     error
}

// recordsLoadedMsg is the constructor for [MsgRecordsLoaded]
func recordsLoadedMsg(records []models.Record, err error) Msg {
	return Msg{kind: MsgRecordsLoaded, data: recordsPayload{records, err}}
}
