// internal/common/aws/sns.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSClient sends reminder SMS through Amazon SNS direct publish.
type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

func (s *SNSClient) SendSMS(ctx context.Context, phoneNumber, senderID, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: awssdk.String(phoneNumber),
		Message:     awssdk.String(message),
	}
	if senderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(senderID),
			},
		}
	}
	_, err := s.client.Publish(ctx, input)
	return err
}
