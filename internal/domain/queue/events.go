package queue

import "context"

// EventType for queue item events pushed to operator sessions
type EventType string

const (
	EventItemCreated  EventType = "queue_item_created"
	EventItemUpdated  EventType = "queue_item_updated"
	EventItemClaimed  EventType = "queue_item_claimed"
	EventItemReleased EventType = "queue_item_released"
	EventItemResolved EventType = "queue_item_resolved"
)

// Event describes a change to a queue item
type Event struct {
	Type EventType     `json:"type"`
	Item *ItemResponse `json:"item"`
}

// EventPublisher pushes queue events to connected operator sessions.
// Implemented by the live hub; a nil publisher disables the feed.
type EventPublisher interface {
	PublishQueueEvent(ctx context.Context, event Event)
}
