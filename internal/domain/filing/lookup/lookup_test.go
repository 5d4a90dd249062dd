package lookup

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticClient_SeedHit(t *testing.T) {
	c := NewStaticClient()
	d, err := c.Fetch(context.Background(), "27AAAAA0000A1Z5")
	require.NoError(t, err)

	assert.Equal(t, "MAHARASHTRA TRADING CO", d.LegalName)
	assert.Equal(t, "MTC SOLUTIONS", d.TradeName)
	assert.Equal(t, "27", d.StateCode)
	assert.Equal(t, "Maharashtra", d.StateName)
	assert.Equal(t, StatusActive, d.Status)
}

func TestStaticClient_NormalizesInput(t *testing.T) {
	c := NewStaticClient()
	d, err := c.Fetch(context.Background(), "  07aaaaa0000a1z5 ")
	require.NoError(t, err)
	assert.Equal(t, "07AAAAA0000A1Z5", d.GSTIN)
	assert.Equal(t, "DELHI LOGISTICS LTD", d.LegalName)
}

func TestStaticClient_FallbackForUnknown(t *testing.T) {
	c := NewStaticClient()
	d, err := c.Fetch(context.Background(), "29AAPFU0939F1ZR")
	require.NoError(t, err)

	assert.Equal(t, "LEGAL NAME FOR 29AAPFU0939F1ZR", d.LegalName)
	assert.Equal(t, "TRADE NAME FOR 29AAPFU0939F1ZR", d.TradeName)
	assert.Equal(t, "29", d.StateCode)
	assert.Equal(t, "Karnataka", d.StateName)
	assert.Equal(t, StatusActive, d.Status)
}

func TestStaticClient_RejectsShortInput(t *testing.T) {
	c := NewStaticClient()
	_, err := c.Fetch(context.Background(), "27AAA")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gstin/27AAAAA0000A1Z5", r.URL.Path)
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(Details{
			GSTIN:     "27AAAAA0000A1Z5",
			LegalName: "MAHARASHTRA TRADING CO",
			StateCode: "27",
			StateName: "Maharashtra",
			Status:    StatusActive,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sekrit", testLogger())
	d, err := c.Fetch(context.Background(), "27aaaaa0000a1z5")
	require.NoError(t, err)
	assert.Equal(t, "MAHARASHTRA TRADING CO", d.LegalName)
}

func TestHTTPClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", testLogger())
	_, err := c.Fetch(context.Background(), "27AAAAA0000A1Z5")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", testLogger())
	_, err := c.Fetch(context.Background(), "27AAAAA0000A1Z5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
