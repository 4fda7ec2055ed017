package handler

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
)

// maxBodySize bounds request bodies, the request carries a single identifier.
const maxBodySize = 1 << 16

type empStatusRequest struct {
	NationalNumber *string `json:"NationalNumber"`
}

// DecodeEmpStatusRequest reads and validates the GetEmpStatus body and returns the
// trimmed national number. Errors wrap errors.ErrInvalidRequest.
func DecodeEmpStatusRequest(r *http.Request) (string, error) {
	body, err := ReadRequestBody(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", internalerrors.ErrInvalidRequest, err)
	}
	if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
		body, err = DecompressBody(body)
		if err != nil {
			return "", fmt.Errorf("%w: %v", internalerrors.ErrInvalidRequest, err)
		}
	}

	var req empStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("%w: invalid JSON body: %v", internalerrors.ErrInvalidRequest, err)
	}
	if req.NationalNumber == nil {
		return "", fmt.Errorf("%w: NationalNumber is required", internalerrors.ErrInvalidRequest)
	}
	nationalNumber := strings.TrimSpace(*req.NationalNumber)
	if nationalNumber == "" {
		return "", fmt.Errorf("%w: NationalNumber must not be empty", internalerrors.ErrInvalidRequest)
	}
	return nationalNumber, nil
}

func DecompressBody(body []byte) ([]byte, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decompressedData, err := io.ReadAll(io.LimitReader(gzipReader, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}
	return decompressedData, nil
}

func ReadRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("empty request body")
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	r.Body.Close()
	return body, nil
}
