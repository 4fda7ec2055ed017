package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	models "github.com/Schera-ole/empstatus/internal/model"
)

// StatusError is a non-2xx answer of the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Message)
}

// Client calls POST /api/GetEmpStatus, retrying 5xx answers and transient network errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	gzip       bool
	delays     []time.Duration
	logger     *zap.SugaredLogger
}

func New(httpClient *http.Client, config *ClientConfig, logger *zap.SugaredLogger) *Client {
	baseURL := config.Address
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      config.Token,
		gzip:       config.Gzip,
		delays:     []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
		logger:     logger,
	}
}

func (c *Client) GetEmpStatus(ctx context.Context, nationalNumber string, bustCache bool) (models.EmpStatusResponse, error) {
	payload, err := json.Marshal(models.EmpStatusRequest{NationalNumber: nationalNumber})
	if err != nil {
		return models.EmpStatusResponse{}, fmt.Errorf("error creating json: %w", err)
	}
	if c.gzip {
		var compressed bytes.Buffer
		gzipWriter := gzip.NewWriter(&compressed)
		if _, err := gzipWriter.Write(payload); err != nil {
			return models.EmpStatusResponse{}, fmt.Errorf("error compressing data: %w", err)
		}
		if err := gzipWriter.Close(); err != nil {
			return models.EmpStatusResponse{}, fmt.Errorf("error closing gzip writer: %w", err)
		}
		payload = compressed.Bytes()
	}

	endpoint := c.baseURL + "/api/GetEmpStatus"
	if bustCache {
		endpoint += "?" + url.Values{"bustCache": {strconv.FormatBool(true)}}.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= len(c.delays); attempt++ {
		if attempt > 0 {
			delay := c.delays[attempt-1]
			c.logger.Infow("retrying request", "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return models.EmpStatusResponse{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.do(ctx, endpoint, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return models.EmpStatusResponse{}, err
		}
	}
	return models.EmpStatusResponse{}, fmt.Errorf("request failed after %d attempts: %w", len(c.delays)+1, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint string, payload []byte) (models.EmpStatusResponse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.EmpStatusResponse{}, fmt.Errorf("error creating request for %s: %w", endpoint, err)
	}
	request.Header.Set("Content-Type", "application/json")
	if c.gzip {
		request.Header.Set("Content-Encoding", "gzip")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return models.EmpStatusResponse{}, fmt.Errorf("error sending request to %s: %w", endpoint, err)
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return models.EmpStatusResponse{}, fmt.Errorf("error reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errResp models.ErrorResponse
		message := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return models.EmpStatusResponse{}, &StatusError{Code: response.StatusCode, Message: message}
	}

	var result models.EmpStatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return models.EmpStatusResponse{}, fmt.Errorf("error decoding response: %w", err)
	}
	return result, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "EOF")
}
