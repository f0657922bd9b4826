// Package scan walks the service configuration tree for custom topic events.
package scan

import (
	"github.com/groblegark/snsevents/internal/model"
)

// TopicEvent is one custom topic entry found in a function's events list.
type TopicEvent struct {
	Function string
	Topic    string
	// Event points into the configuration tree so the entry can be
	// rewritten in place.
	Event *model.Event
}

// CollectTopicEvents returns every custom topic entry across all functions,
// in declaration order. The configuration is not modified.
func CollectTopicEvents(svc *model.Service) []TopicEvent {
	var found []TopicEvent
	for _, fn := range svc.Functions {
		for i := range fn.Events {
			ev := &fn.Events[i]
			if ev.IsTopic() {
				found = append(found, TopicEvent{
					Function: fn.Name,
					Topic:    ev.Topic,
					Event:    ev,
				})
			}
		}
	}
	return found
}

// RewriteTopicEvents converts every custom topic entry into the native
// subscription form, in place, using arnFor to compute the target ARN.
// It returns the topic names that were rewritten, in declaration order.
func RewriteTopicEvents(svc *model.Service, arnFor func(topic string) string) []string {
	var names []string
	for _, te := range CollectTopicEvents(svc) {
		names = append(names, te.Topic)
		te.Event.Rewrite(arnFor(te.Topic))
	}
	return names
}
