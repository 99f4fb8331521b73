package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/log"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel})
	os.Exit(m.Run())
}

func TestLsDecodesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ls", r.URL.Path)
		assert.Equal(t, "/data", r.URL.Query().Get("path"))
		json.NewEncoder(w).Encode(map[string]any{
			"path": "/data",
			"contents": []map[string]any{
				{"name": "x", "is_directory": false, "size": 1500},
				{"name": "sub", "is_directory": true, "size": 0},
			},
		})
	}))
	defer srv.Close()

	entries, err := New(srv.URL).Ls("/data")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[0].Name)
	assert.EqualValues(t, 1500, entries[0].Size)
	assert.True(t, entries[1].IsDirectory)
}

func TestErrorBodySurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "file 'x' already exists"})
	}))
	defer srv.Close()

	err := New(srv.URL).Mkdir("/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestNotFoundMapsToTaxonomy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "path not found"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ls("/missing")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestInitiatePutParsesPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/f", req["path"])
		assert.EqualValues(t, 1500, req["size"])
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"file_id":    2,
				"block_size": 1 << 20,
				"block_assignments": []map[string]any{
					{
						"block_id":                "2_0",
						"primary_datanode_grpc":   "127.0.0.1:50051",
						"secondary_datanode_grpc": "127.0.0.1:50052",
					},
				},
			},
		})
	}))
	defer srv.Close()

	plan, err := New(srv.URL).initiatePut("/f", 1500)
	require.NoError(t, err)
	assert.EqualValues(t, 2, plan.FileID)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "2_0", plan.Assignments[0].BlockID)
	assert.Equal(t, "127.0.0.1:50051", plan.Assignments[0].PrimaryAddress)
	assert.Equal(t, "127.0.0.1:50052", plan.Assignments[0].SecondaryAddress)
}

func TestGetRemovesPartialFileOnFailure(t *testing.T) {
	// One block whose only replica is unreachable: the download must fail
	// and leave no partial output behind.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"file_name":  "f",
				"total_size": 10,
				"block_size": 1 << 20,
				"blocks": []map[string]any{
					{
						"block_id": "2_0", "sequence": 0, "size": 10,
						"datanode_grpc_addresses": []string{"127.0.0.1:1"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	target := t.TempDir() + "/out"
	err := New(srv.URL).Get("/f", target)
	require.Error(t, err)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}
