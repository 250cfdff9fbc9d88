package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/notemill/pkg/domain"
)

const hostedNotebook = `{"cells": [{"cell_type": "code", "metadata": {}, "outputs": [], "source": "a = 1"}], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(hostedNotebook))
	}))
	defer srv.Close()

	store := NewFromClient(srv.Client())
	nb, err := store.Load(context.Background(), srv.URL+"/nb.ipynb")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(nb.Cells) != 1 || nb.Cells[0].Source != "a = 1" {
		t.Errorf("decoded %d cells", len(nb.Cells))
	}
}

func TestLoadNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewFromClient(srv.Client()).Load(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestStoreIsReadOnly(t *testing.T) {
	store := New()
	err := store.Store(context.Background(), domain.NewNotebook(), "https://example.com/nb.ipynb")
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("Store() error = %v, want ErrReadOnly", err)
	}

	// Empty ref stays a no-op even on the read-only adapter.
	if err := store.Store(context.Background(), domain.NewNotebook(), ""); err != nil {
		t.Errorf("Store(\"\") error = %v", err)
	}
}
