/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package s3kv is the S3-backed engine.Engine: one object per key, with no
// local log at all. It is grounded in the teacher repository's
// storage.S3Storage (persistence-s3.go), which builds its client the same
// way — config.LoadDefaultConfig plus an optional static credential
// provider and a custom endpoint for S3-compatible stores such as MinIO.
// Unlike the columnar S3Storage, a key/value pair here needs no manifest or
// segment rollover: PutObject and GetObject on a single object are already
// atomic from the caller's point of view.
package s3kv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/launix-de/kvs/internal/engine"
)

const name = "s3"

// Options configures the S3 client and bucket/prefix a Store writes under.
type Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // custom endpoint for MinIO and other S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

// Store is an engine.Engine backed by S3. It carries no local state beyond
// the client itself, so Close is a no-op; the marker file still lives next
// to wherever the caller keeps its local directory (see Open).
type Store struct {
	opts   Options
	mu     sync.Mutex
	client *s3.Client
}

// Open checks the engine marker in dir (so a store cannot silently migrate
// between backends, §6) and lazily builds the S3 client on first use,
// exactly as S3Storage.ensureOpen does.
func Open(dir string, opts Options) (*Store, error) {
	if err := engine.CheckMarker(dir, name); err != nil {
		return nil, err
	}
	return &Store{opts: opts}, nil
}

func (s *Store) ensureClient() *s3.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client
	}

	var loadOpts []func(*config.LoadOptions) error
	if s.opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.opts.Region))
	}
	if s.opts.AccessKeyID != "" && s.opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.opts.AccessKeyID, s.opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		// LoadDefaultConfig only fails on malformed shared config files; a
		// client built from zero-value aws.Config still lets callers see
		// the real failure on the first request instead of panicking here.
		cfg = aws.Config{}
	}

	var clientOpts []func(*s3.Options)
	if s.opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
		})
	}
	if s.opts.ForcePathStyle {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	s.client = s3.NewFromConfig(cfg, clientOpts...)
	return s.client
}

func (s *Store) objectKey(key string) string {
	prefix := strings.TrimSuffix(s.opts.Prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func (s *Store) Set(key, value string) error {
	client := s.ensureClient()
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader([]byte(value)),
	})
	return err
}

func (s *Store) Get(key string) (string, bool, error) {
	client := s.ensureClient()
	resp, err := client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", false, nil
		}
		return "", false, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (s *Store) Remove(key string) error {
	client := s.ensureClient()
	objKey := s.objectKey(key)

	_, err := client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return engine.ErrKeyNotFound
		}
		return err
	}

	_, err = client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(objKey),
	})
	return err
}

func (s *Store) Close() error {
	return nil
}
