package db

import (
	"context"
	"iter"

	"github.com/dasdy/pixmenu/model"
)

// Storage is the menu journal.
type Storage interface {
	Record(ctx context.Context, event model.MenuEvent) error
	Store(event model.MenuEventWithTimestamp) error
	GatherAll() ([]model.ItemUsage, error)
	AllIterator() (iter.Seq[model.MenuEventWithTimestamp], error)
	Close()
}
