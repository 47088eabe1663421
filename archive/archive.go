package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"

	"github.com/dailypeanut/daily-peanut/peanuts"
)

// Archiver copies published strips to an S3 bucket.
type Archiver struct {
	Bucket   string
	Prefix   string
	Uploader s3manageriface.UploaderAPI
}

// Key returns the object key of the strip for the given date.
func (a *Archiver) Key(date time.Time) string {
	return fmt.Sprintf("%s%s.png", a.Prefix, date.Format(peanuts.DateLayout))
}

// Upload stores the strip image and returns its location.
func (a *Archiver) Upload(ctx context.Context, date time.Time, image []byte) (string, error) {
	upload, err := a.Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(a.Key(date)),
		ContentType: aws.String("image/png"),
		Body:        bytes.NewReader(image),
	})
	if err != nil {
		return "", err
	}

	return upload.Location, nil
}
