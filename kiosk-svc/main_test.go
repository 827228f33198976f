package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchesCommand(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/branches", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":1,"name":"Chi nhánh Quận 1","address":"12 Lê Lợi"},{"branchId":"B2","branchName":"Chi nhánh Thủ Đức"}]}`))
	}))
	defer backendSrv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"branches", "--backend-url", backendSrv.URL + "/api", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Chi nhánh Quận 1")
	assert.Contains(t, out.String(), "B2")
}

func TestBranchesCommand_BackendDown(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer backendSrv.Close()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"branches", "--backend-url", backendSrv.URL, "--env-file", filepath.Join(t.TempDir(), "none.env")})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "--poll-interval", "0s", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestEventsCommandRequiresBroker(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"events", "--kafka-broker", "", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	assert.EqualError(t, cmd.ExecuteContext(context.Background()), "kafka_broker is not configured")
}
