package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/roster/internal/models"
)

var _ list.DefaultItem = recordItem{}

// recordItem wraps [models.Record] to implement [list.DefaultItem].
type recordItem struct {
	record models.Record
}

func (i recordItem) FilterValue() string { return i.record.FullName() }
func (i recordItem) Title() string       { return i.record.FullName() }
func (i recordItem) Description() string { return i.record.Email }

func toItems(records []models.Record) []list.Item {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{record: r}
	}
	return items
}
