package notify

import (
	"context"

	"marketly/pkg/logger"

	"github.com/google/uuid"
)

// LogNotifier writes alerts to the application log. Used when no SNS topic is configured.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (l *LogNotifier) Publish(ctx context.Context, message *Message) (*PublishResult, error) {
	fields := map[string]interface{}{
		"subject": message.Subject,
		"type":    message.Type,
		"body":    message.Body,
	}
	for key, value := range message.Attributes {
		fields["attr."+key] = value
	}
	l.logger.WithContext(ctx).WithFields(fields).Warn("Alert")

	return &PublishResult{
		MessageID: uuid.NewString(),
		Status:    "logged",
	}, nil
}
