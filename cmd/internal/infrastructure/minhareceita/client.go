package minhareceita

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"treinoexpresso/cmd/internal/domain/entity"
)

const DefaultBaseURL = "https://minhareceita.org/"

var (
	ErrNotFound = errors.New("not found")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cnpj, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// minhareceita answers 400 for CNPJs that fail the check digits
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("minhareceita failed with status code: %d", resp.StatusCode)
	}

	var company companyResponse
	if err := json.NewDecoder(resp.Body).Decode(&company); err != nil {
		return nil, fmt.Errorf("failed to decode minhareceita response: %w", err)
	}
	return company.ToDomain(), nil
}
