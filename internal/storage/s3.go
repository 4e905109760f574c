package storage

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"io"
	"os"
	"path"
	"path/filepath"
)

const jpegContentType = "image/jpeg"

// S3Api is the subset of the S3 client the object store needs.
type S3Api interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type ObjectStore struct {
	client S3Api
}

func NewObjectStore(client S3Api) *ObjectStore {
	return &ObjectStore{
		client: client,
	}
}

// List returns every object key under the prefix, following continuation
// tokens until the listing is exhausted.
func (store ObjectStore) List(ctx context.Context, bucket string, prefix string) ([]string, error) {
	input := s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	for {
		output, err := store.client.ListObjectsV2(ctx, &input)
		if err != nil {
			err := ListError{
				bucket: bucket,
				prefix: prefix,
				base:   err,
			}
			logger.Error(err)
			return nil, err
		}

		for _, object := range output.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}

		if !output.IsTruncated {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}

	logger.Debugf("Listed %d objects in bucket %s with prefix %q", len(keys), bucket, prefix)

	return keys, nil
}

// Download fetches the object into dir, flattening the key to its base
// name so nested prefixes end up side by side in the gallery directory.
func (store ObjectStore) Download(ctx context.Context, bucket string, key string, dir string) (string, error) {
	output, err := store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err := DownloadError{
			bucket: bucket,
			key:    key,
			base:   err,
		}
		logger.Error(err)
		return "", err
	}
	defer output.Body.Close()

	target := filepath.Join(dir, path.Base(key))

	file, err := os.Create(target)
	if err != nil {
		err := DownloadError{
			bucket: bucket,
			key:    key,
			base:   err,
		}
		logger.Error(err)
		return "", err
	}
	defer file.Close()

	_, err = io.Copy(file, output.Body)
	if err != nil {
		err := DownloadError{
			bucket: bucket,
			key:    key,
			base:   err,
		}
		logger.Error(err)
		return "", err
	}

	logger.Debugf("Downloaded s3://%s/%s to %s", bucket, key, target)

	return target, nil
}

// Upload stores the file under prefix/<basename> with a JPEG content type
// and returns the resulting key.
func (store ObjectStore) Upload(ctx context.Context, bucket string, prefix string, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		err := UploadError{
			bucket: bucket,
			key:    filePath,
			base:   err,
		}
		logger.Error(err)
		return "", err
	}
	defer file.Close()

	key := path.Join(prefix, filepath.Base(filePath))

	_, err = store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(jpegContentType),
	})
	if err != nil {
		err := UploadError{
			bucket: bucket,
			key:    key,
			base:   err,
		}
		logger.Error(err)
		return "", err
	}

	logger.Debugf("Uploaded %s to s3://%s/%s", filePath, bucket, key)

	return key, nil
}
