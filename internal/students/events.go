package students

import (
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/pubsub"
)

// Event types.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Event is published after every successful mutation.
type Event struct {
	Type    string         `json:"type"`
	Student domain.Student `json:"student"`
	Actor   string         `json:"actor,omitempty"`
}

// Topics carrying student events.
var (
	Created = pubsub.NewEvent[Event]("students.created")
	Updated = pubsub.NewEvent[Event]("students.updated")
	Deleted = pubsub.NewEvent[Event]("students.deleted")
)

// Topics lists every student topic.
var Topics = []pubsub.Event[Event]{Created, Updated, Deleted}
