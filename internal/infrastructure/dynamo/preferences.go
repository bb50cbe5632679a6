package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

// maxTransactItems is the DynamoDB limit for a single TransactWriteItems call.
const maxTransactItems = 100

type preferenceItem struct {
	UserID           int64  `dynamodbav:"user_id"`
	NotificationType string `dynamodbav:"notification_type"`
	EmailEnabled     bool   `dynamodbav:"email_enabled"`
	SoundEnabled     bool   `dynamodbav:"sound_enabled"`
	PushEnabled      bool   `dynamodbav:"push_enabled"`
	UpdatedAt        int64  `dynamodbav:"updated_at"`
}

func (it preferenceItem) toDomain() domain.NotificationPreference {
	return domain.NotificationPreference{
		UserID:           it.UserID,
		NotificationType: domain.NotificationType(it.NotificationType),
		EmailEnabled:     it.EmailEnabled,
		SoundEnabled:     it.SoundEnabled,
		PushEnabled:      it.PushEnabled,
		UpdatedAt:        time.Unix(0, it.UpdatedAt).UTC(),
	}
}

// PreferenceRepo stores explicit preference rows keyed by (user_id, notification_type).
type PreferenceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPreferenceRepo(client *dynamodb.Client, tableName string) *PreferenceRepo {
	return &PreferenceRepo{client: client, tableName: tableName}
}

func (r *PreferenceRepo) ListByUser(ctx context.Context, userID int64) ([]domain.NotificationPreference, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": numAttr(userID),
		},
		ConsistentRead: aws.Bool(true),
	})
	var out []domain.NotificationPreference
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query preferences: %w", err)
		}
		var items []preferenceItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal preferences: %w", err)
		}
		for _, it := range items {
			out = append(out, it.toDomain())
		}
	}
	return out, nil
}

// preferenceUpdate upserts one (user, type) row in place.
func (r *PreferenceRepo) preferenceUpdate(userID int64, p domain.NotificationPreference) (*types.Update, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"email_enabled": p.EmailEnabled,
		"sound_enabled": p.SoundEnabled,
		"push_enabled":  p.PushEnabled,
		"updated_at":    p.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return nil, fmt.Errorf("preference %s: %w", p.NotificationType, err)
	}
	return &types.Update{
		TableName:                 aws.String(r.tableName),
		Key:                       userTypeKey(userID, string(p.NotificationType)),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	}, nil
}

// PutAll writes every row in one transaction so a batch is all-or-nothing.
func (r *PreferenceRepo) PutAll(ctx context.Context, userID int64, prefs []domain.NotificationPreference) error {
	if len(prefs) == 0 {
		return nil
	}
	if len(prefs) > maxTransactItems {
		return fmt.Errorf("too many preference rows: %d", len(prefs))
	}
	items := make([]types.TransactWriteItem, 0, len(prefs))
	for _, p := range prefs {
		upd, err := r.preferenceUpdate(userID, p)
		if err != nil {
			return err
		}
		items = append(items, types.TransactWriteItem{Update: upd})
	}
	if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	}); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
