// internal/adapters/storage/storage_test.go
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/test/helpers"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()

	store, err := NewLocalStorage(base, helpers.TestLogger())
	require.NoError(t, err)

	key := "reports/sales/2024/07/09/sales_report_20240709T060000Z.xlsx"

	t.Run("upload", func(t *testing.T) {
		location, err := store.Upload(ctx, key, strings.NewReader("workbook"), "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, filepath.FromSlash(key)), location)

		data, err := os.ReadFile(location)
		require.NoError(t, err)
		assert.Equal(t, "workbook", string(data))
	})

	t.Run("overwrite", func(t *testing.T) {
		location, err := store.Upload(ctx, key, strings.NewReader("second"), "")
		require.NoError(t, err)

		data, err := os.ReadFile(location)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("list", func(t *testing.T) {
		_, err := store.Upload(ctx, "imports/a.xlsx", strings.NewReader("x"), "")
		require.NoError(t, err)

		keys, err := store.List(ctx, "reports/")
		require.NoError(t, err)
		assert.Equal(t, []string{key}, keys)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("presigned_url", func(t *testing.T) {
		url, err := store.GetPresignedURL(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "file://"))
		assert.True(t, strings.HasSuffix(url, "sales_report_20240709T060000Z.xlsx"))

		_, err = store.GetPresignedURL(ctx, "reports/missing.xlsx", time.Hour)
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, key))
		require.NoError(t, store.Delete(ctx, key))

		keys, err := store.List(ctx, "reports/")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("rejects_escaping_keys", func(t *testing.T) {
		for _, bad := range []string{"../outside.txt", "/etc/passwd", "", "a/../../b"} {
			_, err := store.Upload(ctx, bad, strings.NewReader("x"), "")
			assert.Error(t, err, bad)
		}
	})
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		contentType string
		want        string
	}{
		{name: "explicit", key: "a.bin", contentType: "text/plain", want: "text/plain"},
		{name: "from_extension", key: "invoices/a.pdf", want: "application/pdf"},
		{name: "unknown_extension", key: "a.unknownext", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentTypeFor(tt.key, tt.contentType))
		})
	}
}

func TestS3Storage_GetPresignedURL(t *testing.T) {
	cfg := &S3Config{
		Region:       "us-east-1",
		Bucket:       "pharmacy-reports",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider("minioadmin", "minioadmin123", ""),
	}
	store := newS3Storage(s3.NewFromConfig(awsCfg, clientOptions(cfg)), cfg.Bucket, cfg.Region, helpers.TestLogger())

	url, err := store.GetPresignedURL(context.Background(), "reports/sales/x.xlsx", 15*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/pharmacy-reports/reports/sales/x.xlsx?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}

func TestS3Storage_GetPresignedURL_AWSEndpoint(t *testing.T) {
	cfg := &S3Config{Region: "eu-west-1", Bucket: "pharmacy-reports"}
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
	store := newS3Storage(s3.NewFromConfig(awsCfg, clientOptions(cfg)), cfg.Bucket, cfg.Region, helpers.TestLogger())

	url, err := store.GetPresignedURL(context.Background(), "reports/sales/x.xlsx", time.Hour)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://pharmacy-reports.s3.eu-west-1.amazonaws.com/reports/sales/x.xlsx?"), url)
	assert.Contains(t, url, "X-Amz-Expires=3600")
}
