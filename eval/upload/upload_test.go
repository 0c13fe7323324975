//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package upload

import (
	"context"
	"hash/crc64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRejectsBadURL(t *testing.T) {
	_, err := NewService("://not-a-url")
	assert.Error(t, err)
}

func TestUploadFile(t *testing.T) {
	var gotPath string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			gotPath = r.URL.Path
			gotBody, _ = io.ReadAll(r.Body)
			// The COS SDK verifies uploads against this header, as real COS does.
			crc := crc64.Checksum(gotBody, crc64.MakeTable(crc64.ECMA))
			w.Header().Set("x-cos-hash-crc64ecma", strconv.FormatUint(crc, 10))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dir := t.TempDir()
	local := filepath.Join(dir, "251103143059_metrics.json")
	require.NoError(t, os.WriteFile(local, []byte(`{"Accuracy_overall":0.5}`), 0o644))

	svc, err := NewService(server.URL,
		WithPrefix("videoqa/results"),
		WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	key, err := svc.UploadFile(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, "videoqa/results/251103143059_metrics.json", key)
	assert.Equal(t, "/videoqa/results/251103143059_metrics.json", gotPath)
	assert.Equal(t, `{"Accuracy_overall":0.5}`, string(gotBody))
}
