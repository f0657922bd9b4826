// Package events publishes deploy lifecycle notifications to an optional
// message bus.
package events

import "context"

// Event topic constants
const (
	TopicDeployPhase  = "snsev.deploy.phase"
	TopicTopicCreated = "snsev.topic.created"
	TopicTopicDeleted = "snsev.topic.deleted"
	TopicTopicSkipped = "snsev.topic.skipped"
)

// DeployPhase is published when a lifecycle phase starts or finishes.
type DeployPhase struct {
	DeployID string `json:"deploy_id"`
	Stack    string `json:"stack"`
	Phase    string `json:"phase"`
	Status   string `json:"status"` // "started" or "completed"
}

// TopicCreated is published after a create-topic call succeeds.
type TopicCreated struct {
	DeployID string `json:"deploy_id"`
	Topic    string `json:"topic"`
	ARN      string `json:"arn,omitempty"`
}

// TopicDeleted is published after an orphaned topic is deleted.
type TopicDeleted struct {
	DeployID string `json:"deploy_id"`
	ARN      string `json:"arn"`
}

// TopicSkipped is published when an orphan candidate is kept because it
// still has subscriptions (or its attributes could not be read).
type TopicSkipped struct {
	DeployID string `json:"deploy_id"`
	ARN      string `json:"arn"`
	Reason   string `json:"reason"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
