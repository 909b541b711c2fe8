package awss3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/elC0mpa/etl-cost-monitor/model"
)

const bytesInGiB = 1 << 30

func NewService(awsconfig aws.Config, callTimeout time.Duration) *service {
	return newService(s3.NewFromConfig(awsconfig), callTimeout)
}

func newService(client s3.ListObjectsV2APIClient, callTimeout time.Duration) *service {
	return &service{
		client:      client,
		callTimeout: callTimeout,
	}
}

// GetStorageSnapshot walks every page of the listing under prefix and sums
// object sizes and counts. An empty or missing prefix is a zero snapshot.
func (s *service) GetStorageSnapshot(ctx context.Context, bucket, prefix string) (model.StorageSnapshot, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	var totalBytes int64
	var objectCount int64

	for paginator.HasMorePages() {
		page, err := s.nextPage(ctx, paginator)
		if err != nil {
			return model.StorageSnapshot{}, fmt.Errorf("%w: list s3://%s/%s: %w", model.ErrInventoryUnavailable, bucket, prefix, err)
		}

		for _, object := range page.Contents {
			totalBytes += aws.ToInt64(object.Size)
			objectCount++
		}
	}

	return model.StorageSnapshot{
		SizeGB:      float64(totalBytes) / bytesInGiB,
		ObjectCount: objectCount,
	}, nil
}

func (s *service) nextPage(ctx context.Context, paginator *s3.ListObjectsV2Paginator) (*s3.ListObjectsV2Output, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	return paginator.NextPage(ctx)
}
