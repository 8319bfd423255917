package kafka

import (
	"errors"
	"fmt"
)

// TopicPrefix namespaces every storefront topic.
const TopicPrefix = "scentify"

// Event types published by the storefront.
const (
	EventCartUpdated     = "cart.updated"
	EventWishlistUpdated = "wishlist.updated"
	EventOrderPlaced     = "order.placed"
	EventUserRegistered  = "user.registered"
	EventSensorReadings  = "sensor.readings"
)

var ErrMissingEventType = errors.New("kafka: event has no event_type")

// Topic builds "scentify.<domain>.<action>".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}

// TopicFor maps an event type such as "order.placed" onto its topic.
func TopicFor(eventType string) string {
	return TopicPrefix + "." + eventType
}
