package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// maxBatchSize is the SQS limit of entries per SendMessageBatch call
const maxBatchSize = 10

// Message is a single outgoing message. Attributes become SQS string message attributes.
type Message struct {
	ID         string
	Body       any
	Attributes map[string]string
}

// BatchResult holds the IDs of the messages accepted and rejected by SQS
type BatchResult struct {
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}

// SQSClient is the subset of the SQS API used by Sender
type SQSClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// Sender serializes bodies to JSON and sends them to SQS queues by name.
// Queue URLs are resolved once per queue and cached.
type Sender struct {
	sqsClient SQSClient
	mutex     sync.RWMutex
	queueURLs map[string]string
}

func NewSender(sqsClient SQSClient) *Sender {
	return &Sender{
		sqsClient: sqsClient,
		queueURLs: make(map[string]string),
	}
}

// SendMessage sends one message to the named queue
func (s *Sender) SendMessage(ctx context.Context, queueName string, message Message) error {
	queueURL, err := s.QueueURL(ctx, queueName)
	if err != nil {
		return fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}

	jsonBody, err := json.Marshal(message.Body)
	if err != nil {
		return fmt.Errorf("failed to serialize message body to JSON: %w", err)
	}

	_, err = s.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(queueURL),
		MessageBody:       aws.String(string(jsonBody)),
		MessageAttributes: toAttributes(message.Attributes),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to queue %s: %w", queueName, err)
	}
	return nil
}

// SendMessageBatch sends messages in parallel batches of ten. A batch rejected
// as a whole marks all of its messages as failed.
func (s *Sender) SendMessageBatch(ctx context.Context, queueName string, messages []Message) (*BatchResult, error) {
	finalResult := &BatchResult{
		Successful: []string{},
		Failed:     []string{},
	}
	if len(messages) == 0 {
		return finalResult, nil
	}

	queueURL, err := s.QueueURL(ctx, queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}

	var batches [][]Message
	for i := 0; i < len(messages); i += maxBatchSize {
		end := min(i+maxBatchSize, len(messages))
		batches = append(batches, messages[i:end])
	}

	resultChan := make(chan *BatchResult, len(batches))
	var wg sync.WaitGroup

	for _, batch := range batches {
		wg.Add(1)
		go func(batchMessages []Message) {
			defer wg.Done()

			batchResult, err := s.sendBatch(ctx, queueURL, batchMessages)
			if err != nil {
				resultChan <- &BatchResult{Successful: []string{}, Failed: messageIDs(batchMessages)}
				return
			}
			resultChan <- batchResult
		}(batch)
	}

	wg.Wait()
	close(resultChan)

	for batchResult := range resultChan {
		finalResult.Successful = append(finalResult.Successful, batchResult.Successful...)
		finalResult.Failed = append(finalResult.Failed, batchResult.Failed...)
	}
	return finalResult, nil
}

func (s *Sender) sendBatch(ctx context.Context, queueURL string, messages []Message) (*BatchResult, error) {
	entries := make([]types.SendMessageBatchRequestEntry, 0, len(messages))
	result := &BatchResult{
		Successful: []string{},
		Failed:     []string{},
	}

	for _, message := range messages {
		jsonBody, err := json.Marshal(message.Body)
		if err != nil {
			result.Failed = append(result.Failed, message.ID)
			continue
		}
		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:                aws.String(message.ID),
			MessageBody:       aws.String(string(jsonBody)),
			MessageAttributes: toAttributes(message.Attributes),
		})
	}

	if len(entries) == 0 {
		return result, nil
	}

	output, err := s.sqsClient.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(queueURL),
		Entries:  entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message batch: %w", err)
	}

	for _, success := range output.Successful {
		result.Successful = append(result.Successful, aws.ToString(success.Id))
	}
	for _, failed := range output.Failed {
		result.Failed = append(result.Failed, aws.ToString(failed.Id))
	}
	return result, nil
}

// QueueURL resolves the URL of the named queue, which also proves the queue is reachable
func (s *Sender) QueueURL(ctx context.Context, queueName string) (string, error) {
	s.mutex.RLock()
	queueURL, ok := s.queueURLs[queueName]
	s.mutex.RUnlock()
	if ok {
		return queueURL, nil
	}

	result, err := s.sqsClient.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})
	if err != nil {
		return "", err
	}
	if result.QueueUrl == nil {
		return "", fmt.Errorf("queue URL is nil for queue %s", queueName)
	}

	s.mutex.Lock()
	s.queueURLs[queueName] = *result.QueueUrl
	s.mutex.Unlock()
	return *result.QueueUrl, nil
}

// Ping resolves the queue URL bypassing the cache
func (s *Sender) Ping(ctx context.Context, queueName string) error {
	_, err := s.sqsClient.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})
	return err
}

func toAttributes(attributes map[string]string) map[string]types.MessageAttributeValue {
	if len(attributes) == 0 {
		return nil
	}
	values := make(map[string]types.MessageAttributeValue, len(attributes))
	for key, value := range attributes {
		values[key] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}
	return values
}

func messageIDs(messages []Message) []string {
	ids := make([]string, len(messages))
	for i, message := range messages {
		ids[i] = message.ID
	}
	return ids
}
