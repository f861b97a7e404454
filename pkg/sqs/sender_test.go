package sqs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type fakeSQSClient struct {
	mutex          sync.Mutex
	queueURLCalls  int
	queueURLErr    error
	sent           []*sqs.SendMessageInput
	batches        []*sqs.SendMessageBatchInput
	failBatchEntry string
}

func (f *fakeSQSClient) GetQueueUrl(_ context.Context, params *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.queueURLCalls++
	if f.queueURLErr != nil {
		return nil, f.queueURLErr
	}
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String("http://localhost:4566/000000000000/" + aws.ToString(params.QueueName))}, nil
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.sent = append(f.sent, params)
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func (f *fakeSQSClient) SendMessageBatch(_ context.Context, params *sqs.SendMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.batches = append(f.batches, params)

	output := &sqs.SendMessageBatchOutput{}
	for _, entry := range params.Entries {
		if aws.ToString(entry.Id) == f.failBatchEntry {
			output.Failed = append(output.Failed, types.BatchResultErrorEntry{Id: entry.Id})
			continue
		}
		output.Successful = append(output.Successful, types.SendMessageBatchResultEntry{Id: entry.Id})
	}
	return output, nil
}

func TestSendMessage(t *testing.T) {
	client := &fakeSQSClient{}
	sender := NewSender(client)
	ctx := context.Background()

	message := Message{
		ID:         "e-1",
		Body:       map[string]any{"type": "TODO_CREATED", "todoId": 1},
		Attributes: map[string]string{"eventType": "TODO_CREATED"},
	}
	for i := 0; i < 2; i++ {
		if err := sender.SendMessage(ctx, "todo-events", message); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}

	if client.queueURLCalls != 1 {
		t.Errorf("queue URL should be resolved once, got %d calls", client.queueURLCalls)
	}
	if len(client.sent) != 2 {
		t.Fatalf("sent: got %d", len(client.sent))
	}

	input := client.sent[0]
	if got := aws.ToString(input.QueueUrl); got != "http://localhost:4566/000000000000/todo-events" {
		t.Errorf("queue url: %s", got)
	}
	if got := aws.ToString(input.MessageBody); got != `{"todoId":1,"type":"TODO_CREATED"}` {
		t.Errorf("body: %s", got)
	}
	if got := aws.ToString(input.MessageAttributes["eventType"].StringValue); got != "TODO_CREATED" {
		t.Errorf("eventType attribute: %s", got)
	}
}

func TestSendMessageQueueMissing(t *testing.T) {
	boom := errors.New("AWS.SimpleQueueService.NonExistentQueue")
	sender := NewSender(&fakeSQSClient{queueURLErr: boom})

	err := sender.SendMessage(context.Background(), "missing", Message{Body: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped %v", err, boom)
	}
	if err := sender.Ping(context.Background(), "missing"); !errors.Is(err, boom) {
		t.Errorf("Ping: got %v", err)
	}
}

func TestSendMessageBatchSplitsIntoTens(t *testing.T) {
	client := &fakeSQSClient{failBatchEntry: "m-13"}
	sender := NewSender(client)

	messages := make([]Message, 0, 23)
	for i := 0; i < 23; i++ {
		messages = append(messages, Message{ID: fmt.Sprintf("m-%d", i), Body: i})
	}
	messages = append(messages, Message{ID: "bad", Body: make(chan int)})

	result, err := sender.SendMessageBatch(context.Background(), "todo-events", messages)
	if err != nil {
		t.Fatalf("SendMessageBatch: %v", err)
	}

	if len(client.batches) != 3 {
		t.Errorf("batches: got %d, want 3", len(client.batches))
	}
	if len(result.Successful) != 22 {
		t.Errorf("successful: got %d, want 22", len(result.Successful))
	}
	sort.Strings(result.Failed)
	if len(result.Failed) != 2 || result.Failed[0] != "bad" || result.Failed[1] != "m-13" {
		t.Errorf("failed: got %v", result.Failed)
	}
}

func TestSendMessageBatchEmpty(t *testing.T) {
	client := &fakeSQSClient{}
	result, err := NewSender(client).SendMessageBatch(context.Background(), "todo-events", nil)
	if err != nil || len(result.Successful) != 0 || len(result.Failed) != 0 {
		t.Fatalf("got %+v, %v", result, err)
	}
	if client.queueURLCalls != 0 {
		t.Error("empty batch should not touch SQS")
	}
}
