// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"gradescan/internal/security"
)

// ErrServiceUnavailable marks a network, auth or quota failure from the
// recognition provider. It is fatal for the invocation; the core never
// retries it.
var ErrServiceUnavailable = errors.New("recognition service unavailable")

// Client is the recognition-service boundary. Implementations must tolerate
// any image payload and always return either a validated Result or an error;
// an empty fragment list is a valid result, not an error.
type Client interface {
	Recognize(ctx context.Context, imageBytes []byte, languageHints []string) (*Result, error)
}

// HTTPClient calls a remote text-recognition endpoint that accepts raw image
// bytes and answers with a JSON payload of text fragments.
type HTTPClient struct {
	endpoint string
	apiKey   *security.SecureString
	httpc    *http.Client
}

// NewHTTPClient builds a client for the given endpoint. The API key is held
// in a scrubbing buffer; callers should not keep their own copy. A zero
// timeout defaults to 30 seconds.
func NewHTTPClient(endpoint, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   security.NewSecureString(apiKey),
		httpc:    &http.Client{Timeout: timeout},
	}
}

// providerPayload is the provider's wire shape. It is decoded and validated
// here at the edge so internal components never see unvalidated dynamic data.
type providerPayload struct {
	Fragments []providerFragment `json:"fragments"`
	FullText  string             `json:"full_text"`
}

type providerFragment struct {
	Text        string      `json:"text"`
	BoundingBox [][]float64 `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// Recognize sends the image to the provider and maps its response into the
// validated Result shape. Provider failures of any kind surface as
// ErrServiceUnavailable; malformed payloads are reported as such, not
// silently dropped.
func (c *HTTPClient) Recognize(ctx context.Context, imageBytes []byte, languageHints []string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("building recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if !c.apiKey.IsEmpty() {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey.String())
	}
	if len(languageHints) > 0 {
		req.Header.Set("X-Language-Hints", strings.Join(languageHints, ","))
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: provider returned status %d", ErrServiceUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("recognition request rejected with status %d", resp.StatusCode)
	}

	return DecodePayload(body)
}

// DecodePayload parses and validates a provider payload. Every fragment must
// carry a 4-point bounding box and a confidence in [0,1].
func DecodePayload(data []byte) (*Result, error) {
	var payload providerPayload
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding recognition payload: %w", err)
	}

	result := &Result{FullText: payload.FullText}
	for i, pf := range payload.Fragments {
		if pf.Text == "" {
			continue
		}
		if len(pf.BoundingBox) != 4 {
			return nil, fmt.Errorf("fragment %d: bounding box has %d points, want 4", i, len(pf.BoundingBox))
		}
		var polygon [4]Point
		for j, pt := range pf.BoundingBox {
			if len(pt) != 2 {
				return nil, fmt.Errorf("fragment %d: bounding box point %d has %d coordinates, want 2", i, j, len(pt))
			}
			polygon[j] = Point{X: pt[0], Y: pt[1]}
		}
		if pf.Confidence < 0 || pf.Confidence > 1 {
			return nil, fmt.Errorf("fragment %d: confidence %v outside [0,1]", i, pf.Confidence)
		}
		result.Fragments = append(result.Fragments, TextFragment{
			Text:       pf.Text,
			Polygon:    polygon,
			Confidence: pf.Confidence,
		})
	}

	if result.FullText == "" {
		result.FullText = result.BuildFullText(20)
	}
	return result, nil
}
