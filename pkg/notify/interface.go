package notify

import "context"

// Notifier delivers operational alerts, e.g. low stock, to the people who act on them.
type Notifier interface {
	Publish(ctx context.Context, message *Message) (*PublishResult, error)
}

type Message struct {
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type PublishResult struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}
