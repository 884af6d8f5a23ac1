package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// PublisherAPI defines the interface for SQS operations used by Publisher.
type PublisherAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher handles publishing catalog change events to AWS SQS.
type Publisher struct {
	client   PublisherAPI
	queueURL string
}

// NewPublisher creates a new SQS Publisher with the given client and queue URL.
func NewPublisher(client PublisherAPI, queueURL string) *Publisher {
	return &Publisher{
		client:   client,
		queueURL: queueURL,
	}
}

// Actions carried by catalog event messages.
const (
	ActionProductCreated       = "product_created"
	ActionProductUpdated       = "product_updated"
	ActionProductStatusChanged = "product_status_changed"
	ActionProductDeleted       = "product_deleted"
	ActionSettingsUpdated      = "settings_updated"
)

// Entity types carried by catalog event messages.
const (
	EntityProduct    = "product"
	EntitySiteConfig = "site_config"
)

// CatalogEventMessage describes one change applied to the catalog.
type CatalogEventMessage struct {
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Name       string `json:"name"`
}

// PublishCatalogEvent publishes a catalog change event to the SQS queue.
func (p *Publisher) PublishCatalogEvent(ctx context.Context, msg CatalogEventMessage) error {
	messageBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(messageBody)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
