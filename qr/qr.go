// Package qr builds and parses the QR payload: a URL carrying the
// human-readable product id in a productId query parameter. The bytes32
// codec is only involved after extraction.
package qr

import (
	"errors"
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// ParamName is the query parameter holding the product id.
const ParamName = "productId"

var ErrNoProductID = errors.New("payload has no productId parameter")

// BuildPayload returns the URL to embed in a QR code for the given product.
func BuildPayload(baseURL, productID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL '%s': %w", baseURL, err)
	}
	q := u.Query()
	q.Set(ParamName, productID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParsePayload extracts the human-readable product id from a scanned
// payload.
func ParsePayload(payload string) (string, error) {
	u, err := url.Parse(payload)
	if err != nil {
		return "", fmt.Errorf("malformed payload: %w", err)
	}
	id := u.Query().Get(ParamName)
	if id == "" {
		return "", ErrNoProductID
	}
	return id, nil
}

// Image renders the payload for a product as a QR code PNG.
func Image(baseURL, productID string, size int) ([]byte, error) {
	payload, err := BuildPayload(baseURL, productID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
