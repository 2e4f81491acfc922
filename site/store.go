package site

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/pkg/errors"
)

// Store holds the page being updated
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, page []byte) error
}

// FileStore keeps the page on the local file system
type FileStore struct {
	Path string
}

func (f FileStore) Read(ctx context.Context) ([]byte, error) {
	page, err := ioutil.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read page `%s`", f.Path)
	}
	return page, nil
}

func (f FileStore) Write(ctx context.Context, page []byte) error {
	if err := ioutil.WriteFile(f.Path, page, 0644); err != nil {
		return errors.Wrapf(err, "cannot write page `%s`", f.Path)
	}
	return nil
}

// S3Store keeps the page in an S3 bucket that serves the site
type S3Store struct {
	Client s3iface.S3API
	Logger *dlog.Logger
	Bucket string
	Key    string
}

func (s S3Store) Read(ctx context.Context) (page []byte, err error) {
	s.Logger.Debugf("Read s3://%s/%s", s.Bucket, s.Key)

	obj, err := s.Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot get page s3://%s/%s", s.Bucket, s.Key)
	}

	defer func() {
		if cErr := obj.Body.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	page, err = ioutil.ReadAll(obj.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read page s3://%s/%s", s.Bucket, s.Key)
	}

	return page, nil
}

func (s S3Store) Write(ctx context.Context, page []byte) error {
	s.Logger.Debugf("Write s3://%s/%s", s.Bucket, s.Key)

	_, err := s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(s.Key),
		Body:         bytes.NewReader(page),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String("max-age=60"),
	})
	if err != nil {
		return errors.Wrapf(err, "cannot put page s3://%s/%s", s.Bucket, s.Key)
	}

	return nil
}
