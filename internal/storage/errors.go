package storage

import "fmt"

type ListError struct {
	bucket string
	prefix string
	base   error
}

func (e ListError) Error() string {
	return fmt.Sprintf("Unable to list bucket %s with prefix %q: %v", e.bucket, e.prefix, e.base)
}

func (e ListError) Unwrap() error {
	return e.base
}

type DownloadError struct {
	bucket string
	key    string
	base   error
}

func (e DownloadError) Error() string {
	return fmt.Sprintf("Unable to download s3://%s/%s: %v", e.bucket, e.key, e.base)
}

func (e DownloadError) Unwrap() error {
	return e.base
}

type UploadError struct {
	bucket string
	key    string
	base   error
}

func (e UploadError) Error() string {
	return fmt.Sprintf("Unable to upload to s3://%s/%s: %v", e.bucket, e.key, e.base)
}

func (e UploadError) Unwrap() error {
	return e.base
}
