package dynamodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/vetpoint/vetpoint/internal/config"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/types"
)

// API is the subset of the DynamoDB client the store depends on
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store is the document-store surface consumed by the repositories:
// get / add / update by tenant-scoped collection and ID, plus ordered
// bounded queries. All documents for a tenant live in a single table with
// pk = "<tenantID>#<collection>" and sk = the document ID. IDs are
// k-sortable ULIDs, so sk order is creation order.
type Store struct {
	db        API
	tableName string
	logger    *logger.Logger
}

// QueryFilter is an equality predicate on a top-level document attribute
type QueryFilter struct {
	Field string
	Value interface{}
}

// QueryOptions bounds and orders a collection query
type QueryOptions struct {
	Filters []QueryFilter
	// Descending returns newest documents first
	Descending bool
	Limit      int
}

func NewStore(client *Client, cfg *config.Configuration, logger *logger.Logger) *Store {
	var db API
	if client != nil {
		db = client.DB()
	}
	return &Store{
		db:        db,
		tableName: cfg.DynamoDB.TableName,
		logger:    logger,
	}
}

func partitionKey(ctx context.Context, collection string) string {
	return fmt.Sprintf("%s#%s", types.GetTenantID(ctx), collection)
}

// GetDocument loads a single document into out. Returns ErrNotFound when the
// document does not exist in the tenant's collection.
func (s *Store) GetDocument(ctx context.Context, collection, id string, out interface{}) error {
	resp, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"pk": &ddbtypes.AttributeValueMemberS{Value: partitionKey(ctx, collection)},
			"sk": &ddbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to get document from %s", collection).
			Mark(ierr.ErrDatabase)
	}

	if resp.Item == nil {
		return ierr.NewError("document not found").
			WithHintf("Document %s not found", id).
			WithReportableDetails(map[string]any{
				"collection": collection,
				"id":         id,
			}).
			Mark(ierr.ErrNotFound)
	}

	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to unmarshal document").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// AddDocument appends a new document. Fails with ErrAlreadyExists when the ID
// is already present; append-only collections rely on this guard.
func (s *Store) AddDocument(ctx context.Context, collection, id string, doc interface{}) error {
	item, err := s.marshalItem(ctx, collection, id, doc)
	if err != nil {
		return err
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		var conditionErr *ddbtypes.ConditionalCheckFailedException
		if ierr.As(err, &conditionErr) {
			return ierr.WithError(err).
				WithHintf("Document %s already exists", id).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHintf("Failed to add document to %s", collection).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// UpdateDocument replaces an existing document. Fails with ErrNotFound when
// the document does not exist.
func (s *Store) UpdateDocument(ctx context.Context, collection, id string, doc interface{}) error {
	item, err := s.marshalItem(ctx, collection, id, doc)
	if err != nil {
		return err
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(sk)"),
	})
	if err != nil {
		var conditionErr *ddbtypes.ConditionalCheckFailedException
		if ierr.As(err, &conditionErr) {
			return ierr.NewError("document not found").
				WithHintf("Document %s not found", id).
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHintf("Failed to update document in %s", collection).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// QueryDocuments loads the tenant's collection into out (a pointer to a
// slice), applying equality filters, sk ordering and the limit. Query's
// Limit parameter bounds the items evaluated before the filter expression
// runs, so the limit is applied here to matching items instead, following
// LastEvaluatedKey across pages until enough matches are collected.
func (s *Store) QueryDocuments(ctx context.Context, collection string, opts QueryOptions, out interface{}) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ScanIndexForward:       aws.Bool(!opts.Descending),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: partitionKey(ctx, collection)},
		},
	}

	if len(opts.Filters) > 0 {
		clauses := make([]string, 0, len(opts.Filters))
		names := make(map[string]string, len(opts.Filters))
		for i, f := range opts.Filters {
			av, err := attributevalue.Marshal(f.Value)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to marshal query filter").
					Mark(ierr.ErrDatabase)
			}
			nameKey := fmt.Sprintf("#f%d", i)
			valueKey := fmt.Sprintf(":f%d", i)
			names[nameKey] = f.Field
			input.ExpressionAttributeValues[valueKey] = av
			clauses = append(clauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		}
		input.FilterExpression = aws.String(strings.Join(clauses, " AND "))
		input.ExpressionAttributeNames = names
	}

	items := []map[string]ddbtypes.AttributeValue{}
	for {
		resp, err := s.db.Query(ctx, input)
		if err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to query documents in %s", collection).
				Mark(ierr.ErrDatabase)
		}

		items = append(items, resp.Items...)
		if opts.Limit > 0 && len(items) >= opts.Limit {
			items = items[:opts.Limit]
			break
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = resp.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to unmarshal query result").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *Store) marshalItem(ctx context.Context, collection, id string, doc interface{}) (map[string]ddbtypes.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to marshal document").
			Mark(ierr.ErrDatabase)
	}
	item["pk"] = &ddbtypes.AttributeValueMemberS{Value: partitionKey(ctx, collection)}
	item["sk"] = &ddbtypes.AttributeValueMemberS{Value: id}
	return item, nil
}
