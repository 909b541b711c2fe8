package awss3

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/elC0mpa/etl-cost-monitor/model"
)

type service struct {
	client      s3.ListObjectsV2APIClient
	callTimeout time.Duration
}

type InventoryService interface {
	GetStorageSnapshot(ctx context.Context, bucket, prefix string) (model.StorageSnapshot, error)
}
