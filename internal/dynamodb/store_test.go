package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/suite"

	"github.com/vetpoint/vetpoint/internal/config"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/types"
)

// stubAPI replays canned responses the way the service pages them: Query
// hands back one page per call and records the inputs it saw, so tests can
// assert on ExclusiveStartKey propagation.
type stubAPI struct {
	getItemOutput *dynamodb.GetItemOutput
	getItemErr    error
	putItemErr    error
	queryPages    []*dynamodb.QueryOutput
	queryInputs   []*dynamodb.QueryInput
}

func (s *stubAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if s.getItemErr != nil {
		return nil, s.getItemErr
	}
	if s.getItemOutput != nil {
		return s.getItemOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (s *stubAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if s.putItemErr != nil {
		return nil, s.putItemErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (s *stubAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	copied := *params
	s.queryInputs = append(s.queryInputs, &copied)
	page := s.queryPages[0]
	s.queryPages = s.queryPages[1:]
	return page, nil
}

type storeDoc struct {
	ID             string `dynamodbav:"sk"`
	IdempotencyKey string `dynamodbav:"idempotency_key"`
}

type StoreSuite struct {
	suite.Suite
	ctx context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = types.SetTenantID(context.Background(), "tenant_store_test")
}

func (s *StoreSuite) newStore(api API) *Store {
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	s.Require().NoError(err)
	return &Store{db: api, tableName: cfg.DynamoDB.TableName, logger: log}
}

func item(id, idempotencyKey string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"sk":              &ddbtypes.AttributeValueMemberS{Value: id},
		"idempotency_key": &ddbtypes.AttributeValueMemberS{Value: idempotencyKey},
	}
}

func lastKey(id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"sk": &ddbtypes.AttributeValueMemberS{Value: id},
	}
}

// A filtered query must keep paging when earlier pages were fully consumed
// by the filter expression; a single call with the limit on the Query input
// would evaluate one item, match nothing and report an empty result.
func (s *StoreSuite) TestQueryFollowsPagesUntilFilterMatches() {
	api := &stubAPI{
		queryPages: []*dynamodb.QueryOutput{
			{Items: nil, LastEvaluatedKey: lastKey("ltxn_01")},
			{Items: nil, LastEvaluatedKey: lastKey("ltxn_02")},
			{Items: []map[string]ddbtypes.AttributeValue{item("ltxn_03", "visit_award-abc")}},
		},
	}
	store := s.newStore(api)

	var docs []storeDoc
	err := store.QueryDocuments(s.ctx, "loyalty_transactions", QueryOptions{
		Filters: []QueryFilter{{Field: "idempotency_key", Value: "visit_award-abc"}},
		Limit:   1,
	}, &docs)
	s.NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("ltxn_03", docs[0].ID)

	s.Require().Len(api.queryInputs, 3)
	s.Nil(api.queryInputs[0].Limit)
	s.Nil(api.queryInputs[0].ExclusiveStartKey)
	s.Equal(lastKey("ltxn_01"), api.queryInputs[1].ExclusiveStartKey)
	s.Equal(lastKey("ltxn_02"), api.queryInputs[2].ExclusiveStartKey)
}

func (s *StoreSuite) TestQueryStopsAtLimitAcrossPages() {
	api := &stubAPI{
		queryPages: []*dynamodb.QueryOutput{
			{
				Items:            []map[string]ddbtypes.AttributeValue{item("ltxn_01", "")},
				LastEvaluatedKey: lastKey("ltxn_01"),
			},
			{
				Items: []map[string]ddbtypes.AttributeValue{
					item("ltxn_02", ""),
					item("ltxn_03", ""),
				},
				LastEvaluatedKey: lastKey("ltxn_03"),
			},
		},
	}
	store := s.newStore(api)

	var docs []storeDoc
	err := store.QueryDocuments(s.ctx, "loyalty_transactions", QueryOptions{Limit: 2}, &docs)
	s.NoError(err)
	s.Require().Len(docs, 2)
	s.Equal("ltxn_01", docs[0].ID)
	s.Equal("ltxn_02", docs[1].ID)
	s.Len(api.queryInputs, 2)
}

func (s *StoreSuite) TestQueryDrainsAllPagesWithoutLimit() {
	api := &stubAPI{
		queryPages: []*dynamodb.QueryOutput{
			{
				Items:            []map[string]ddbtypes.AttributeValue{item("ltxn_01", "")},
				LastEvaluatedKey: lastKey("ltxn_01"),
			},
			{
				Items: []map[string]ddbtypes.AttributeValue{item("ltxn_02", "")},
			},
		},
	}
	store := s.newStore(api)

	var docs []storeDoc
	err := store.QueryDocuments(s.ctx, "loyalty_transactions", QueryOptions{}, &docs)
	s.NoError(err)
	s.Len(docs, 2)
	s.Len(api.queryInputs, 2)
}

func (s *StoreSuite) TestGetDocumentMissing() {
	store := s.newStore(&stubAPI{})

	var doc storeDoc
	err := store.GetDocument(s.ctx, "clients", "client_missing", &doc)
	s.True(ierr.IsNotFound(err))
}

func (s *StoreSuite) TestAddDocumentDuplicate() {
	store := s.newStore(&stubAPI{
		putItemErr: &ddbtypes.ConditionalCheckFailedException{},
	})

	err := store.AddDocument(s.ctx, "clients", "client_01", storeDoc{ID: "client_01"})
	s.True(ierr.IsAlreadyExists(err))
}

func (s *StoreSuite) TestUpdateDocumentMissing() {
	store := s.newStore(&stubAPI{
		putItemErr: &ddbtypes.ConditionalCheckFailedException{},
	})

	err := store.UpdateDocument(s.ctx, "clients", "client_missing", storeDoc{ID: "client_missing"})
	s.True(ierr.IsNotFound(err))
}
