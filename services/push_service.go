package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// Publisher is the slice of the SNS client we call.
type Publisher interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// PushService publishes notifications to an SNS topic that mobile
// endpoints subscribe to.
type PushService struct {
	sns      Publisher
	topicArn string
}

func NewPushService(sns Publisher, topicArn string) *PushService {
	return &PushService{sns: sns, topicArn: topicArn}
}

func (p *PushService) Push(ctx context.Context, title, body string, data map[string]string) error {
	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
		"data": data,
	})
	if err != nil {
		return err
	}
	// SNS expects each platform payload as an embedded JSON string.
	raw, err := json.Marshal(map[string]string{"default": body, "GCM": string(gcm)})
	if err != nil {
		return err
	}

	_, err = p.sns.Publish(ctx, &awssns.PublishInput{
		MessageStructure: aws.String("json"),
		Message:          aws.String(string(raw)),
		TopicArn:         aws.String(p.topicArn),
		Subject:          aws.String(title),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
