package adapters

import (
	"fmt"
	"io"
	"net/http"

	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
)

// HTTPStatusError reports a non-2xx response. Pollers use it to pick a
// backoff class distinct from transport failures.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP request returned non-OK status code: %d", e.StatusCode)
}

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}

type contentFetcher struct {
	client *http.Client
	logger outbound.LoggerPort
}

func NewContentFetcher(client *http.Client, logger outbound.LoggerPort) ContentFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &contentFetcher{
		client: client,
		logger: logger,
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			c.logger.ErrorWithFields(closeErr, "Failed to close the response body", map[string]interface{}{
				"method": req.Method,
				"URL":    req.URL.String(),
			})
		}
	}(res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		statusErr := &HTTPStatusError{StatusCode: res.StatusCode, Body: string(payload)}
		c.logger.ErrorWithFields(statusErr, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": statusErr.Body,
		})
		return nil, statusErr
	}

	return payload, nil
}
