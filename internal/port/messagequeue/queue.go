// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Handler processes a message received from the queue.
type Handler func(ctx context.Context, subject string, data []byte) error

// Publisher sends messages. Services depend on this narrower interface.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Queue is the port interface for publishing and subscribing to messages.
type Queue interface {
	Publisher

	// Subscribe registers a handler for messages on the given subject.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Close shuts down the queue connection immediately.
	Close() error
}

// Subject constants for NATS subjects used by basenames.
const (
	SubjectNameRegistered    = "names.registered"
	SubjectCollectionCreated = "collections.created"
	SubjectCollectionMinted  = "collections.minted"

	// Wildcards covering each subject family the stream carries.
	SubjectNames       = "names.>"
	SubjectCollections = "collections.>"

	// DLQSuffix is appended to a subject to route poison messages aside.
	DLQSuffix = ".dlq"
)
