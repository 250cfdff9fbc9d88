package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notemill/internal/logging"
)

func writeNotebook(t *testing.T, dir, name, source string) string {
	t.Helper()
	nb := fmt.Sprintf(`{
 "cells": [
  {"cell_type": "code", "metadata": {"tags": ["parameters"]}, "outputs": [], "source": "alpha=1"},
  {"cell_type": "code", "metadata": {}, "outputs": [], "source": %q}
 ],
 "metadata": {"kernelspec": {"name": "sh", "language": "sh"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`, source)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(nb), 0o644))
	return path
}

func postExecution(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/executions", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	handler := New(logging.NewNop()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	handler := New(logging.NewNop()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExecutePrepareOnly(t *testing.T) {
	dir := t.TempDir()
	input := writeNotebook(t, dir, "in.ipynb", "echo hi")
	output := filepath.Join(dir, "out.ipynb")

	handler := New(logging.NewNop()).Handler()
	rec := postExecution(t, handler, ExecutionRequest{
		Input:       input,
		Output:      output,
		Parameters:  map[string]any{"alpha": 5},
		PrepareOnly: true,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ExecutionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, output, resp.Output)
	assert.Equal(t, 2, resp.Cells)
	assert.Nil(t, resp.Error)

	_, err := os.Stat(output)
	assert.NoError(t, err, "prepared notebook should be written")
}

func TestExecuteCellFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not available: %v", err)
	}

	dir := t.TempDir()
	input := writeNotebook(t, dir, "in.ipynb", "exit 3")
	output := filepath.Join(dir, "out.ipynb")

	handler := New(logging.NewNop()).Handler()
	rec := postExecution(t, handler, ExecutionRequest{Input: input, Output: output})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp ExecutionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NonZeroExit", resp.Error.Ename)
	assert.Equal(t, "3", resp.Error.Evalue)

	_, err := os.Stat(output)
	assert.NoError(t, err, "failed run should still persist the marked notebook")
}

func TestExecuteBadRequests(t *testing.T) {
	handler := New(logging.NewNop()).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/executions", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postExecution(t, handler, ExecutionRequest{Input: "", Output: "out"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteMissingInput(t *testing.T) {
	handler := New(logging.NewNop()).Handler()
	rec := postExecution(t, handler, ExecutionRequest{
		Input:  filepath.Join(t.TempDir(), "missing.ipynb"),
		Output: filepath.Join(t.TempDir(), "out.ipynb"),
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
