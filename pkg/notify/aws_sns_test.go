package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSNS struct {
	input *sns.PublishInput
	err   error
}

func (s *stubSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	s.input = params
	if s.err != nil {
		return nil, s.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestAWSSNSNotifier_PublishesToTopic(t *testing.T) {
	stub := &stubSNS{}
	notifier := &AWSSNSNotifier{client: stub, topicARN: "arn:aws:sns:ap-south-1:123:alerts"}

	result, err := notifier.Publish(context.Background(), &Message{
		Subject:    strings.Repeat("s", 150),
		Body:       "stock low",
		Type:       "inventory.low_stock",
		Attributes: map[string]string{"product_id": "p1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "msg-1", result.MessageID)
	assert.Equal(t, "sent", result.Status)
	assert.Equal(t, "arn:aws:sns:ap-south-1:123:alerts", aws.ToString(stub.input.TopicArn))
	assert.Len(t, aws.ToString(stub.input.Subject), maxSubjectLength)
	assert.Equal(t, "p1", aws.ToString(stub.input.MessageAttributes["product_id"].StringValue))
	assert.Equal(t, "inventory.low_stock", aws.ToString(stub.input.MessageAttributes["type"].StringValue))
}

func TestAWSSNSNotifier_WrapsPublishError(t *testing.T) {
	notifier := &AWSSNSNotifier{client: &stubSNS{err: errors.New("throttled")}, topicARN: "arn"}

	result, err := notifier.Publish(context.Background(), &Message{Subject: "x", Body: "y"})
	require.Error(t, err)
	assert.Equal(t, "failed", result.Status)
	assert.Contains(t, err.Error(), "throttled")
}
