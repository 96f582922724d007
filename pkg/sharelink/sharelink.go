// Package sharelink packs a collection of requests into a URL so another client can seed
// its state from it.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// Param is the query parameter carrying the encoded collection
const Param = "data"

// ErrNoData is returned by FromURL when the link has no payload
var ErrNoData = errors.New("link carries no shared data")

// Encode serializes records the way browser clients do: standard base64 over the
// percent-encoded JSON. The result still needs query escaping inside a URL.
func Encode(records []model.ConsultationRequest) (string, error) {
	if records == nil {
		records = []model.ConsultationRequest{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode shared records: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(escapeComponent(string(data)))), nil
}

// escapeComponent percent-encodes s like encodeURIComponent, with spaces as %20
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Link returns base with the encoded records set as its data parameter
func Link(base string, records []model.ConsultationRequest) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse share base URL: %w", err)
	}

	encoded, err := Encode(records)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set(Param, encoded)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Decode reverses Encode. Standard and unpadded base64 are both accepted, as are
// payloads that were percent-encoded before base64 encoding.
func Decode(param string) ([]model.ConsultationRequest, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return nil, ErrNoData
	}
	if unescaped, err := url.PathUnescape(param); err == nil {
		param = unescaped
	}
	// Query parsing turns an unescaped '+' into a space
	param = strings.ReplaceAll(param, " ", "+")

	raw, err := decodeBase64(param)
	if err != nil {
		return nil, fmt.Errorf("failed to decode shared data: %w", err)
	}

	var records []model.ConsultationRequest
	if err := json.Unmarshal(raw, &records); err != nil {
		// btoa(encodeURIComponent(json)) payloads
		unescaped, uerr := url.PathUnescape(string(raw))
		if uerr != nil {
			return nil, fmt.Errorf("failed to parse shared data: %w", err)
		}
		if err := json.Unmarshal([]byte(unescaped), &records); err != nil {
			return nil, fmt.Errorf("failed to parse shared data: %w", err)
		}
	}

	for i := range records {
		if records[i].AvailableTimeSlots == nil {
			records[i].AvailableTimeSlots = []string{}
		}
	}
	if records == nil {
		records = []model.ConsultationRequest{}
	}
	return records, nil
}

// FromURL extracts and decodes the data parameter of a shared link
func FromURL(raw string) ([]model.ConsultationRequest, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse shared link: %w", err)
	}
	return Decode(u.Query().Get(Param))
}

func decodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
