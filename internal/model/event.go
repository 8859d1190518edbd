package model

import "fmt"

// EventKind is the lifecycle event delivered by the hosting panel
type EventKind string

// EventKind constants
const (
	EventInsert       EventKind = "insert"
	EventUpdate       EventKind = "update"
	EventDelete       EventKind = "delete"
	EventSSL          EventKind = "ssl"
	EventClientDelete EventKind = "client_delete"
)

// ValidEventKinds returns all event kinds
func ValidEventKinds() []EventKind {
	return []EventKind{EventInsert, EventUpdate, EventDelete, EventSSL, EventClientDelete}
}

// Event carries the record state before and after the change.
// Insert events only carry New, delete events only carry Old.
type Event struct {
	Kind EventKind     `yaml:"kind" json:"kind"`
	Old  *DomainRecord `yaml:"old" json:"old"`
	New  *DomainRecord `yaml:"new" json:"new"`
}

// Validate checks that the records required by the kind are present
func (e Event) Validate() error {
	switch e.Kind {
	case EventInsert, EventSSL:
		if e.New == nil {
			return fmt.Errorf("%s event requires a new record", e.Kind)
		}
	case EventUpdate:
		if e.New == nil {
			return fmt.Errorf("update event requires a new record")
		}
	case EventDelete, EventClientDelete:
		if e.Old == nil {
			return fmt.Errorf("%s event requires an old record", e.Kind)
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}
