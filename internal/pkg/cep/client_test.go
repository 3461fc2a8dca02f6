package cep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	values map[string][]byte
	ttl    time.Duration
}

func (m *memoryCache) GetJSON(ctx context.Context, key string, dest any) error {
	raw, ok := m.values[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	m.ttl = ttl
	return nil
}

func newServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/01310100/json/":
			_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","complemento":"de 612 a 1510 - lado par","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP","ibge":"3550308"}`))
		case "/99999999/json/":
			_, _ = w.Write([]byte(`{"erro": true}`))
		case "/88888888/json/":
			_, _ = w.Write([]byte(`{"erro": "true"}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup_CachesHits(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	mem := &memoryCache{values: map[string][]byte{}}
	client := NewClient(config.CEPConfig{BaseURL: srv.URL, CacheTTL: time.Hour}, mem)

	addr, err := client.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, Address{
		CEP:          "01310100",
		Street:       "Avenida Paulista",
		Complement:   "de 612 a 1510 - lado par",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		IBGE:         "3550308",
	}, addr)
	assert.Equal(t, time.Hour, mem.ttl)

	again, err := client.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLookup_Errors(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	client := NewClient(config.CEPConfig{BaseURL: srv.URL}, nil)

	_, err := client.Lookup(context.Background(), "0131-0100")
	assert.ErrorIs(t, err, ErrInvalidCEP)
	_, err = client.Lookup(context.Background(), "1234567")
	assert.ErrorIs(t, err, ErrInvalidCEP)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))

	_, err = client.Lookup(context.Background(), "99999-999")
	assert.ErrorIs(t, err, ErrCEPNotFound)
	_, err = client.Lookup(context.Background(), "88888888")
	assert.ErrorIs(t, err, ErrCEPNotFound)

	_, err = client.Lookup(context.Background(), "12345678")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestLookup_UnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(config.CEPConfig{BaseURL: url, Timeout: time.Second}, nil)
	_, err := client.Lookup(context.Background(), "01310100")
	assert.ErrorIs(t, err, ErrUpstream)
}
