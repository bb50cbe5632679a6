package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

// maxBatchGetKeys is the DynamoDB limit for a single BatchGetItem call.
const maxBatchGetKeys = 100

const (
	notificationSeq   = "notification_id"
	userCreatedIndex  = "user_id-created_at-index"
	fieldIsRead       = "is_read"
	fieldNotification = "notification_id"
)

// notificationItem is the stored shape. created_at is unix nanos so the GSI
// sort key orders numerically.
type notificationItem struct {
	NotificationID int64  `dynamodbav:"notification_id"`
	UserID         int64  `dynamodbav:"user_id"`
	Type           string `dynamodbav:"type"`
	Title          string `dynamodbav:"title"`
	Message        string `dynamodbav:"message"`
	IsRead         bool   `dynamodbav:"is_read"`
	CreatedAt      int64  `dynamodbav:"created_at"`
}

func toNotificationItem(n *domain.Notification) notificationItem {
	return notificationItem{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt.UnixNano(),
	}
}

func (it notificationItem) toDomain() domain.Notification {
	return domain.Notification{
		ID:        it.NotificationID,
		UserID:    it.UserID,
		Type:      domain.NotificationType(it.Type),
		Title:     it.Title,
		Message:   it.Message,
		IsRead:    it.IsRead,
		CreatedAt: time.Unix(0, it.CreatedAt).UTC(),
	}
}

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
	counters  *Counters
}

func NewNotificationRepo(client *dynamodb.Client, tableName string, counters *Counters) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName, counters: counters}
}

// Create assigns the next notification id and writes the item.
func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	id, err := r.counters.Next(ctx, notificationSeq)
	if err != nil {
		return err
	}
	n.ID = id
	item, err := attributevalue.MarshalMap(toNotificationItem(n))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(notification_id)"),
	})
	if err != nil {
		return fmt.Errorf("put notification: %w", err)
	}
	return nil
}

// ListUnread queries the user_id-created_at GSI for is_read=false candidates,
// then re-reads them from the base table with a consistent read. GSI reads are
// eventually consistent and can still show rows a moment ago marked read.
func (r *NotificationRepo) ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error) {
	candidates, err := r.query(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	current, err := r.getConsistent(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return stillUnread(candidates, current), nil
}

// getConsistent fetches the base-table copy of each notification, keyed by id.
func (r *NotificationRepo) getConsistent(ctx context.Context, ns []domain.Notification) (map[int64]notificationItem, error) {
	out := make(map[int64]notificationItem, len(ns))
	for start := 0; start < len(ns); start += maxBatchGetKeys {
		end := start + maxBatchGetKeys
		if end > len(ns) {
			end = len(ns)
		}
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, n := range ns[start:end] {
			keys = append(keys, numKey(fieldNotification, n.ID))
		}
		request := map[string]types.KeysAndAttributes{
			r.tableName: {Keys: keys, ConsistentRead: aws.Bool(true)},
		}
		for len(request) > 0 {
			resp, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("batch get notifications: %w", err)
			}
			var items []notificationItem
			if err := attributevalue.UnmarshalListOfMaps(resp.Responses[r.tableName], &items); err != nil {
				return nil, fmt.Errorf("unmarshal notifications: %w", err)
			}
			for _, it := range items {
				out[it.NotificationID] = it
			}
			request = resp.UnprocessedKeys
		}
	}
	return out, nil
}

// stillUnread keeps the candidates, in their original order, whose current
// copy exists and is unread.
func stillUnread(candidates []domain.Notification, current map[int64]notificationItem) []domain.Notification {
	var out []domain.Notification
	for _, n := range candidates {
		it, ok := current[n.ID]
		if !ok || it.IsRead {
			continue
		}
		out = append(out, it.toDomain())
	}
	return out
}

func (r *NotificationRepo) ListAll(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return r.query(ctx, userID, false)
}

func (r *NotificationRepo) query(ctx context.Context, userID int64, unreadOnly bool) ([]domain.Notification, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(userCreatedIndex),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": numAttr(userID),
		},
		ScanIndexForward: aws.Bool(true),
	}
	if unreadOnly {
		input.FilterExpression = aws.String("is_read = :false")
		input.ExpressionAttributeValues[":false"] = &types.AttributeValueMemberBOOL{Value: false}
	}

	var out []domain.Notification
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query notifications: %w", err)
		}
		var items []notificationItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal notifications: %w", err)
		}
		for _, it := range items {
			out = append(out, it.toDomain())
		}
	}
	return out, nil
}

// MarkAsRead flips is_read on a notification owned by userID. A missing or
// foreign notification is silently ignored.
func (r *NotificationRepo) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldIsRead: true})
	if err != nil {
		return err
	}
	ue.Values[":uid"] = numAttr(userID)
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       numKey(fieldNotification, notificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(notification_id) AND user_id = :uid"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark notification %d read: %w", notificationID, err)
	}
	return nil
}

// MarkAllAsRead marks every unread notification of userID. DynamoDB has no
// multi-item update, so each unread item is updated in turn. Rows the GSI has
// not indexed yet are missed; a stale candidate just gets a no-op update.
func (r *NotificationRepo) MarkAllAsRead(ctx context.Context, userID int64) error {
	unread, err := r.query(ctx, userID, true)
	if err != nil {
		return err
	}
	for _, n := range unread {
		if err := r.MarkAsRead(ctx, n.ID, userID); err != nil {
			return err
		}
	}
	return nil
}
