//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package upload publishes evaluation result files to Tencent Cloud Object
// Storage (COS).
//
// Authentication:
// The service requires COS credentials which can be provided via:
// - Environment variables: TCOS_SECRETID and TCOS_SECRETKEY (recommended)
// - Option functions: WithSecretID() and WithSecretKey()
package upload

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
)

const defaultTimeout = 60 * time.Second

// Service uploads result files to a COS bucket.
type Service struct {
	cosClient *cos.Client
	prefix    string
}

// options contains configuration options for the upload service.
type options struct {
	secretID   string
	secretKey  string
	timeout    time.Duration
	httpClient *http.Client
	prefix     string
}

// Option configures the upload service.
type Option func(*options)

// WithSecretID sets the COS secret ID.
func WithSecretID(secretID string) Option {
	return func(o *options) { o.secretID = secretID }
}

// WithSecretKey sets the COS secret key.
func WithSecretKey(secretKey string) Option {
	return func(o *options) { o.secretKey = secretKey }
}

// WithTimeout sets the HTTP timeout for uploads.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithPrefix sets the object key prefix for uploaded files.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// NewService creates a COS upload service for the given bucket URL
// (https://bucket.cos.region.myqcloud.com).
func NewService(bucketURL string, opts ...Option) (*Service, error) {
	o := &options{
		timeout:   defaultTimeout,
		secretID:  os.Getenv("TCOS_SECRETID"),
		secretKey: os.Getenv("TCOS_SECRETKEY"),
	}
	for _, opt := range opts {
		opt(o)
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("parse bucket url: %w", err)
	}
	b := &cos.BaseURL{BucketURL: u}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: o.timeout,
			Transport: &cos.AuthorizationTransport{
				SecretID:  o.secretID,
				SecretKey: o.secretKey,
			},
		}
	}
	return &Service{
		cosClient: cos.NewClient(b, httpClient),
		prefix:    o.prefix,
	}, nil
}

// UploadFile uploads one local file; the object key is the configured prefix
// joined with the file's base name. It returns the object key.
func (s *Service) UploadFile(ctx context.Context, localPath string) (string, error) {
	key := path.Join(s.prefix, filepath.Base(localPath))
	if _, err := s.cosClient.Object.PutFromFile(ctx, key, localPath, nil); err != nil {
		return "", fmt.Errorf("upload %s to %s: %w", localPath, key, err)
	}
	return key, nil
}
