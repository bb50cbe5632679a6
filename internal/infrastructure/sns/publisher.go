package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/ferrypratamaa-00/monii-sub001/internal/config"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

type publishAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher fans stored notifications out to an SNS topic that mobile push
// subscribers listen on.
type Publisher struct {
	client   publishAPI
	topicARN string
}

// NewPublisher returns nil when SNS_TOPIC_ARN is unset.
func NewPublisher(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, nil
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SNSRegion)}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	var clientOpts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &Publisher{client: sns.NewFromConfig(awsCfg, clientOpts...), topicARN: cfg.SNSTopicARN}, nil
}

func (p *Publisher) Publish(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	in := &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"user_id": {DataType: aws.String("Number"), StringValue: aws.String(strconv.FormatInt(n.UserID, 10))},
			"type":    {DataType: aws.String("String"), StringValue: aws.String(string(n.Type))},
		},
	}
	if subject := subjectFor(n.Title); subject != "" {
		in.Subject = aws.String(subject)
	}
	if _, err := p.client.Publish(ctx, in); err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// maxSubjectLen is the SNS limit on Subject length.
const maxSubjectLen = 99

// subjectFor reduces title to printable ASCII on one line, as SNS requires.
// An empty result means the message is published without a subject.
func subjectFor(title string) string {
	var b strings.Builder
	for _, r := range title {
		if r < 0x20 || r > 0x7e {
			r = ' '
		}
		b.WriteRune(r)
	}
	subject := strings.Join(strings.Fields(b.String()), " ")
	if len(subject) > maxSubjectLen {
		subject = strings.TrimSpace(subject[:maxSubjectLen])
	}
	return subject
}
