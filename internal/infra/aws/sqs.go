package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// NewSqsClient creates an SQS client, pointing at settings.Endpoint (e.g. LocalStack) when set
func NewSqsClient(ctx context.Context, settings Settings) (*sqs.Client, error) {
	cfg, err := LoadConfig(ctx, settings)
	if err != nil {
		return nil, err
	}

	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(settings.Endpoint)
		}
	}), nil
}
