package db

import (
	"cmp"
	"context"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/dasdy/pixmenu/model"
	"github.com/schollz/progressbar/v3"
)

// UsageCounter keeps per-item statistics in memory. It is seeded from the
// journal and then updated live as a menu recorder.
type UsageCounter struct {
	usage     map[int]*model.ItemUsage
	events    int
	stateLock sync.RWMutex
}

func NewUsageCounter() *UsageCounter {
	return &UsageCounter{usage: make(map[int]*model.ItemUsage)}
}

// NewUsageCounterFromDB replays the whole journal. A progress bar is shown on
// stdout when showProgress is set.
func NewUsageCounterFromDB(storage Storage, showProgress bool) (*UsageCounter, error) {
	counter := NewUsageCounter()

	iterator, err := storage.AllIterator()
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(-1, "Scanning history...")
	} else {
		bar = progressbar.DefaultSilent(-1, "Scanning history...")
	}

	counter.initCounter(iterator, bar)

	return counter, nil
}

func (c *UsageCounter) initCounter(items iter.Seq[model.MenuEventWithTimestamp], bar *progressbar.ProgressBar) {
	for item := range items {
		if err := bar.Add(1); err != nil {
			slog.Error("could not update progress bar", "error", err)
		}

		c.handle(item.MenuEvent)
	}

	if err := bar.Finish(); err != nil {
		slog.Error("could not finish progress bar", "error", err)
	}
}

func (c *UsageCounter) Record(_ context.Context, event model.MenuEvent) error {
	c.handle(event)

	return nil
}

func (c *UsageCounter) handle(event model.MenuEvent) {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	c.events++

	if event.Kind == model.EventExit {
		return
	}

	u, ok := c.usage[event.Index]
	if !ok {
		u = &model.ItemUsage{Index: event.Index}
		c.usage[event.Index] = u
	}

	if event.Label != "" {
		u.Label = event.Label
	}

	switch event.Kind {
	case model.EventStart, model.EventNavigate:
		u.Visits++
	case model.EventSelect:
		u.Selected++
	case model.EventActionFail:
		u.Failed++
	case model.EventActionDone, model.EventExit:
	}
}

// Gather returns the statistics ordered by item index.
func (c *UsageCounter) Gather() []model.ItemUsage {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	result := make([]model.ItemUsage, 0, len(c.usage))
	for _, u := range c.usage {
		result = append(result, *u)
	}

	slices.SortFunc(result, func(a, b model.ItemUsage) int {
		return cmp.Compare(a.Index, b.Index)
	})

	return result
}

func (c *UsageCounter) Events() int {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.events
}
