package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoURL адрес API телеметрии не задан
var ErrNoURL = errors.New("не задан адрес API телеметрии")

// StatusError ответ API телеметрии с кодом, отличным от 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API телеметрии вернуло статус %d", e.StatusCode)
	}
	return fmt.Sprintf("API телеметрии вернуло статус %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	url         string
	bearerToken string
	httpClient  *http.Client
}

func NewClient(url, bearerToken string, timeout time.Duration) *Client {
	return &Client{
		url:         url,
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Fetch возвращает тело ответа API телеметрии без разбора
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, ErrNoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("не удалось сформировать запрос к API телеметрии: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к API телеметрии: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать ответ API телеметрии: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
