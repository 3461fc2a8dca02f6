// Package cep resolves Brazilian postal codes through ViaCEP, caching hits.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
)

var (
	ErrInvalidCEP  = errors.New("cep must have 8 digits")
	ErrCEPNotFound = errors.New("cep not found")
	ErrUpstream    = errors.New("cep lookup service unavailable")
)

// Address is the subset of a ViaCEP answer used to prefill employee addresses
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	IBGE         string `json:"ibge,omitempty"`
}

// Cache stores resolved addresses; *cache.Redis satisfies it
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	ttl     time.Duration
}

// NewClient builds a lookup client. cache may be nil.
func NewClient(cfg config.CEPConfig, c Cache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   c,
		ttl:     cfg.CacheTTL,
	}
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	IBGE        string `json:"ibge"`
	// bool in the classic API, string "true" in newer responses
	Erro any `json:"erro"`
}

func (r viaCEPResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// Lookup resolves cep, accepting it with or without the hyphen.
func (c *Client) Lookup(ctx context.Context, cep string) (Address, error) {
	if !validator.IsValidCEP(cep) {
		return Address{}, ErrInvalidCEP
	}
	digits := validator.NormalizeCEP(cep)
	key := "cep:" + digits

	var addr Address
	if c.cache != nil {
		err := c.cache.GetJSON(ctx, key, &addr)
		if err == nil {
			return addr, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("CEP cache read failed", "cep", digits, "error", err)
		}
	}

	addr, err := c.fetch(ctx, digits)
	if err != nil {
		return Address{}, err
	}

	if c.cache != nil && c.ttl > 0 {
		if err := c.cache.SetJSON(ctx, key, addr, c.ttl); err != nil {
			slog.Warn("CEP cache write failed", "cep", digits, "error", err)
		}
	}
	return addr, nil
}

func (c *Client) fetch(ctx context.Context, digits string) (Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, digits), nil)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return Address{}, ErrCEPNotFound
	case resp.StatusCode != http.StatusOK:
		return Address{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if body.notFound() {
		return Address{}, ErrCEPNotFound
	}

	return Address{
		CEP:          digits,
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
		IBGE:         body.IBGE,
	}, nil
}
