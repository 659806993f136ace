package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

var ErrNotDataURI = errors.New("invalid base64 image")

// ObjectPutter is the slice of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PhotoUploader stores meal photos sent as data URIs and returns their
// public URL.
type PhotoUploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

func NewPhotoUploader(client ObjectPutter, bucket, baseURL string) *PhotoUploader {
	return &PhotoUploader{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// IsDataURI reports whether s looks like "data:<mime>;base64,<data>".
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:") && strings.Contains(s, ";base64,")
}

// DecodeDataURI splits a data URI into its content type and bytes.
func DecodeDataURI(s string) (string, []byte, error) {
	meta, data, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return "", nil, ErrNotDataURI
	}
	mediaType := strings.TrimPrefix(meta, "data:")   // "image/jpeg;base64"
	contentType, _, _ := strings.Cut(mediaType, ";") // "image/jpeg"
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return contentType, raw, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(contentType, "/"); ok {
		return "." + sub
	}
	return ""
}

// Upload puts the decoded image under meal-photos/ and returns its URL.
func (u *PhotoUploader) Upload(ctx context.Context, dataURI string) (string, error) {
	contentType, imageData, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("meal-photos/%s%s", uuid.NewString(), extensionFor(contentType))

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}
