package state

import (
	"context"
	"errors"

	"github.com/iterasys/petstore-test-harness/framework/opt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

const (
	// Schema of the DynamoDB table
	tablePartitionKey = "namespace"
	tableSortKey      = "key"
	valueAttribute    = "value"

	// DefaultDynamoDBTable is used when the configuration does not name a table.
	DefaultDynamoDBTable = "petstore-test-state"
)

// DynamoDBStore keeps one run's values in a DynamoDB table, partitioned by run id.
type DynamoDBStore struct {
	dynamodb  *dynamodb.DynamoDB
	table     string
	namespace string
}

// DynamoDBConfig locates the table. Region and Endpoint may be empty to use the AWS SDK's
// usual environment and shared-config lookup; Endpoint is mostly for local DynamoDB.
type DynamoDBConfig struct {
	Table       string `json:"table" mapstructure:"table"`
	Region      string `json:"region" mapstructure:"region"`
	Endpoint    string `json:"endpoint" mapstructure:"endpoint"`
	CreateTable bool   `json:"createTable" mapstructure:"createTable"`
}

// NewDynamoDBStore creates a DynamoDB client and, if requested, creates the table when it does
// not exist yet.
func NewDynamoDBStore(ctx context.Context, config DynamoDBConfig, runID string) (*DynamoDBStore, error) {
	awsConfig := aws.NewConfig()
	if config.Region != "" {
		awsConfig = awsConfig.WithRegion(config.Region)
	}
	if config.Endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(config.Endpoint)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsConfig,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}
	d := &DynamoDBStore{
		dynamodb:  dynamodb.New(sess),
		table:     config.Table,
		namespace: namespacePrefix + ":" + runID,
	}
	if d.table == "" {
		d.table = DefaultDynamoDBTable
	}
	if config.CreateTable {
		if err := d.ensureTable(ctx); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *DynamoDBStore) Get(ctx context.Context, key string) (string, error) {
	result, err := d.dynamodb.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		ConsistentRead: aws.Bool(true),
		Key:            d.itemKey(key),
	})
	if err != nil || result == nil || result.Item == nil {
		return valueOrMissing(key, opt.None[string](), err)
	}
	attr := result.Item[valueAttribute]
	if attr == nil || attr.S == nil {
		return valueOrMissing(key, opt.None[string](), nil)
	}
	return valueOrMissing(key, opt.Some(*attr.S), nil)
}

func (d *DynamoDBStore) Set(ctx context.Context, key, value string) error {
	item := d.itemKey(key)
	item[valueAttribute] = &dynamodb.AttributeValue{S: aws.String(value)}
	_, err := d.dynamodb.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return err
}

func (d *DynamoDBStore) Reset(ctx context.Context) error {
	query := &dynamodb.QueryInput{
		TableName:      aws.String(d.table),
		ConsistentRead: aws.Bool(true),
		KeyConditions: map[string]*dynamodb.Condition{
			tablePartitionKey: {
				ComparisonOperator: aws.String(dynamodb.ComparisonOperatorEq),
				AttributeValueList: []*dynamodb.AttributeValue{{S: aws.String(d.namespace)}},
			},
		},
		AttributesToGet: []*string{aws.String(tablePartitionKey), aws.String(tableSortKey)},
	}
	var keys []map[string]*dynamodb.AttributeValue
	err := d.dynamodb.QueryPagesWithContext(ctx, query, func(out *dynamodb.QueryOutput, lastPage bool) bool {
		keys = append(keys, out.Items...)
		return !lastPage
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := d.dynamodb.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(d.table),
			Key:       key,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (d *DynamoDBStore) Close() error { return nil }

func (d *DynamoDBStore) itemKey(key string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		tablePartitionKey: {S: aws.String(d.namespace)},
		tableSortKey:      {S: aws.String(key)},
	}
}

func (d *DynamoDBStore) ensureTable(ctx context.Context) error {
	_, err := d.dynamodb.DescribeTableWithContext(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)})
	if err == nil {
		return nil
	}
	var aerr awserr.Error
	if !errors.As(err, &aerr) || aerr.Code() != dynamodb.ErrCodeResourceNotFoundException {
		return err
	}
	_, err = d.dynamodb.CreateTableWithContext(ctx, &dynamodb.CreateTableInput{
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String(tablePartitionKey),
				AttributeType: aws.String("S"),
			},
			{
				AttributeName: aws.String(tableSortKey),
				AttributeType: aws.String("S"),
			},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String(tablePartitionKey),
				KeyType:       aws.String("HASH"),
			},
			{
				AttributeName: aws.String(tableSortKey),
				KeyType:       aws.String("RANGE"),
			},
		},
		ProvisionedThroughput: &dynamodb.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(1),
			WriteCapacityUnits: aws.Int64(1),
		},
		TableName: aws.String(d.table),
	})
	if err != nil {
		return err
	}
	return d.dynamodb.WaitUntilTableExistsWithContext(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)})
}
