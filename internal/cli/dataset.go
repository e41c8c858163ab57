package cli

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-globe/pkg/config"
	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/markers/source"
)

// loadDataset resolves the configured origin: a local file, then S3, then the
// embedded default. The returned string names the origin for logs.
func loadDataset(ctx context.Context, cfg config.DatasetConfig) (*markers.Dataset, string, error) {
	switch {
	case cfg.Path != "":
		ds, err := source.LoadFile(cfg.Path)
		return ds, cfg.Path, err

	case cfg.S3Bucket != "":
		origin := fmt.Sprintf("s3://%s/%s", cfg.S3Bucket, cfg.S3Key)
		client, err := source.NewS3Client(ctx, cfg.S3Region)
		if err != nil {
			return nil, origin, err
		}
		ds, err := source.LoadS3(ctx, client, cfg.S3Bucket, cfg.S3Key)
		return ds, origin, err

	default:
		ds, err := source.Embedded()
		return ds, "embedded", err
	}
}
