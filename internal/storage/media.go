package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Media hands out presigned PUT URLs for travel-post images. The browser
// uploads straight to the bucket; the API never proxies image bytes.
type Media struct {
	region    string
	endpoint  string
	accessKey string
	secretKey string
	bucket    string
	baseURL   string
}

type PresignedUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

func NewMedia(region, endpoint, accessKey, secretKey, bucket, baseURL string) *Media {
	return &Media{
		region:    region,
		endpoint:  endpoint,
		accessKey: accessKey,
		secretKey: secretKey,
		bucket:    bucket,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (m *Media) Configured() bool {
	return m.bucket != "" && m.accessKey != "" && m.secretKey != ""
}

func (m *Media) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(m.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			m.accessKey,
			m.secretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if m.endpoint != "" {
			o.BaseEndpoint = aws.String(m.endpoint)
		}
	})

	return s3.NewPresignClient(client), nil
}

// PresignUpload returns a 15-minute PUT URL for one image. Object keys are
// date-partitioned with a random suffix; the original filename only
// contributes its extension.
func (m *Media) PresignUpload(ctx context.Context, filename string) (PresignedUpload, error) {
	presignClient, err := m.presignClient(ctx)
	if err != nil {
		return PresignedUpload{}, err
	}

	key := storageKey(filename)
	bucket := m.bucket

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return PresignedUpload{}, err
	}

	return PresignedUpload{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: m.publicURL(key),
	}, nil
}

func (m *Media) publicURL(key string) string {
	if m.baseURL == "" {
		return ""
	}

	return m.baseURL + "/" + key
}

func storageKey(filename string) string {
	d := time.Now().UTC()
	ext := strings.ToLower(path.Ext(filename))

	return fmt.Sprintf("travel/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}
