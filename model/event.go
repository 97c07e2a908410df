package model

import "time"

type EventKind string

const (
	EventStart      EventKind = "start"
	EventNavigate   EventKind = "navigate"
	EventSelect     EventKind = "select"
	EventActionDone EventKind = "done"
	EventActionFail EventKind = "failed"
	EventExit       EventKind = "exit"
)

// MenuEvent is one entry of the menu journal.
type MenuEvent struct {
	Kind  EventKind
	Index int
	Label string
	Error string
}

type MenuEventWithTimestamp struct {
	MenuEvent
	Timestamp time.Time
}

// ItemUsage aggregates journal entries for one menu item.
type ItemUsage struct {
	Index    int
	Label    string
	Visits   int
	Selected int
	Failed   int
}
