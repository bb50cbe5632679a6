package sns

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/ferrypratamaa-00/monii-sub001/internal/config"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	return &sns.PublishOutput{}, f.err
}

func TestNewPublisher_DisabledWithoutTopic(t *testing.T) {
	p, err := NewPublisher(context.Background(), config.Default())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPublish(t *testing.T) {
	fake := &fakeSNS{}
	p := &Publisher{client: fake, topicARN: "arn:aws:sns:us-east-1:000000000000:notify"}
	n := domain.Notification{ID: 5, UserID: 42, Type: domain.TypeGoalReminder, Title: "Goal", Message: "Save", CreatedAt: time.Now().UTC()}

	require.NoError(t, p.Publish(context.Background(), n))
	require.NotNil(t, fake.in)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:notify", *fake.in.TopicArn)
	assert.Equal(t, "42", *fake.in.MessageAttributes["user_id"].StringValue)
	assert.Equal(t, "Number", *fake.in.MessageAttributes["user_id"].DataType)
	assert.Equal(t, "GOAL_REMINDER", *fake.in.MessageAttributes["type"].StringValue)
	assert.Equal(t, "Goal", *fake.in.Subject)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(*fake.in.Message), &body))
	assert.Equal(t, float64(5), body["id"])
	assert.Equal(t, "Goal", body["title"])
}

func TestPublish_WrapsError(t *testing.T) {
	boom := errors.New("throttled")
	p := &Publisher{client: &fakeSNS{err: boom}, topicARN: "arn"}
	err := p.Publish(context.Background(), domain.Notification{ID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestSubjectFor(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Budget exceeded", "Budget exceeded"},
		{"line breaks", "Budget\r\nexceeded", "Budget exceeded"},
		{"non ascii", "Épargne 🎯 atteinte", "pargne atteinte"},
		{"only symbols outside ascii", "🎯🎯", ""},
		{"long", strings.Repeat("a", 200), strings.Repeat("a", 99)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, subjectFor(tt.title))
		})
	}
}

func TestPublish_OmitsEmptySubject(t *testing.T) {
	fake := &fakeSNS{}
	p := &Publisher{client: fake, topicARN: "arn"}
	require.NoError(t, p.Publish(context.Background(), domain.Notification{ID: 1, Title: "🎯"}))
	assert.Nil(t, fake.in.Subject)
}
