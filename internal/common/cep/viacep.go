// internal/common/cep/viacep.go
// Package cep looks up Brazilian postal codes on the ViaCEP public API
// to autofill client address forms.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/errors"
	commonhttp "lawdesk-api/internal/common/http"
	"lawdesk-api/pkg/format"
)

// Address is the subset of the ViaCEP response the forms consume.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
}

type viaCEPResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Erro         bool   `json:"erro"`
}

// Client queries ViaCEP.
type Client struct {
	baseURL string
	http    *commonhttp.Client
}

func NewClient(cfg config.CEPConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
	}
}

// Lookup resolves a postal code to an address. The code may arrive
// formatted ("01310-100") or as bare digits.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	digits := format.Digits(cep)
	if len(digits) != 8 {
		return nil, errors.NewValidationError([]errors.FieldError{{
			Field:   "cep",
			Message: "CEP deve conter 8 dígitos",
			Code:    "INVALID_CEP",
		}})
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)
	resp, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return nil, errors.NewCEPLookupFailedError(cep, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewCEPLookupFailedError(cep, fmt.Errorf("status %d", resp.StatusCode))
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewCEPLookupFailedError(cep, err)
	}

	// ViaCEP answers 200 with {"erro": true} for unknown codes.
	if body.Erro {
		return nil, errors.NewRecordNotFoundError("cep", cep)
	}

	return &Address{
		CEP:          body.CEP,
		Street:       body.Street,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}, nil
}
