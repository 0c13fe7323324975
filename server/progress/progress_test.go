//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package progress

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressEndpoint(t *testing.T) {
	s := New("127.0.0.1:0", Snapshot{
		RunID:     "run-123",
		Model:     "internvl2-8b",
		Rank:      1,
		WorldSize: 4,
	})
	s.Update(12, 125)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "run-123", snap.RunID)
	assert.Equal(t, 1, snap.Rank)
	assert.Equal(t, 4, snap.WorldSize)
	assert.Equal(t, 12, snap.Done)
	assert.Equal(t, 125, snap.Total)
	assert.False(t, snap.StartedAt.IsZero())
}

func TestHealthEndpoint(t *testing.T) {
	s := New("127.0.0.1:0", Snapshot{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
