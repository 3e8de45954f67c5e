package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// maximum subject length accepted by SNS for email endpoints
const maxSubjectLength = 100

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type AWSSNSNotifier struct {
	client   snsPublisher
	topicARN string
}

func NewAWSSNSNotifier(ctx context.Context, region, topicARN string) (*AWSSNSNotifier, error) {
	if topicARN == "" {
		return nil, fmt.Errorf("sns topic ARN is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSNSNotifier{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}, nil
}

func (a *AWSSNSNotifier) Publish(ctx context.Context, message *Message) (*PublishResult, error) {
	subject := message.Subject
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength]
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message.Body),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(message.Type),
			},
		},
	}

	for key, value := range message.Attributes {
		input.MessageAttributes[key] = snsTypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}

	resp, err := a.client.Publish(ctx, input)
	if err != nil {
		return &PublishResult{Status: "failed"}, fmt.Errorf("failed to publish to SNS: %w", err)
	}

	return &PublishResult{
		MessageID: aws.ToString(resp.MessageId),
		Status:    "sent",
	}, nil
}
