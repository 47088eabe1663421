package postlog

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/dailypeanut/daily-peanut/peanuts"
)

type postItem struct {
	*peanuts.Comic
	PostID  string `json:"post_id"`
	PostURL string `json:"post_url"`
}

// DynamoRecorder writes published posts to a DynamoDB table keyed by date.
type DynamoRecorder struct {
	Table  string
	BlogID string
	DB     dynamodbiface.DynamoDBAPI
}

// Record stores the comic and its post. An existing item for the same
// date is overwritten.
func (d *DynamoRecorder) Record(ctx context.Context, comic *peanuts.Comic, postID string) error {
	av, err := dynamodbattribute.MarshalMap(postItem{comic, postID, PostURL(d.BlogID, postID)})
	if err != nil {
		return err
	}

	_, err = d.DB.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.Table),
		Item:      av,
	})
	return err
}
