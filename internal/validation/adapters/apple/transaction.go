package apple

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// TransactionInfo is the decoded payload of a signed transaction.
type TransactionInfo struct {
	TransactionID         string `json:"transactionId"`
	OriginalTransactionID string `json:"originalTransactionId"`
	ProductID             string `json:"productId"`
	BundleID              string `json:"bundleId"`
	PurchaseDate          int64  `json:"purchaseDate"`
	ExpiresDate           int64  `json:"expiresDate"`
	Environment           string `json:"environment"`
	Type                  string `json:"type"`
}

// DecodeSignedTransaction extracts the claims from a JWS signed transaction.
// Apple signs these with its own certificate chain; we only need the payload,
// which is the middle base64url segment.
func DecodeSignedTransaction(signed string) (*TransactionInfo, error) {
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		return nil, errors.New("malformed signed transaction")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}

	var info TransactionInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
