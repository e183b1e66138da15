package service

import (
	"encoding/json"
	"fmt"
)

// Operation names a coordination request. The set is closed; anything
// else is rejected at the transport boundary.
type Operation string

const (
	OpOpenAuction  Operation = "openAuction"
	OpPlaceBid     Operation = "placeBid"
	OpCloseAuction Operation = "closeAuction"
)

// Valid returns true if the operation is recognized.
func (op Operation) Valid() bool {
	switch op {
	case OpOpenAuction, OpPlaceBid, OpCloseAuction:
		return true
	}
	return false
}

// OpenRequest asks the service to list a new auction.
type OpenRequest struct {
	ID    string  `json:"id"`
	Item  string  `json:"item"`
	Price float64 `json:"price"`
	Owner string  `json:"owner"`
}

// BidRequest submits a competing bid on a live auction.
type BidRequest struct {
	ID           string  `json:"id"`
	Bid          float64 `json:"bid"`
	BidderPubKey string  `json:"bidderPubKey"`
}

// CloseRequest settles an auction. Only the recorded owner succeeds.
type CloseRequest struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
}

// CloseResult carries the settlement of a closed auction. Winner is
// empty when the auction closed without bids.
type CloseResult struct {
	Winner string  `json:"winner"`
	Price  float64 `json:"price"`
}

// ErrorDetail describes a domain rejection inside a response payload.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the envelope every operation answers with. Exactly one
// of Message/Result (success) or Error (rejection) is populated.
type Response struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

// DecodeMessage deserializes a message from JSON bytes.
func DecodeMessage[T any](data []byte) (*T, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EncodeMessage serializes a message to JSON bytes.
func EncodeMessage[T any](msg *T) ([]byte, error) {
	return json.Marshal(msg)
}

func successResponse(message string) *Response {
	return &Response{OK: true, Message: message}
}

func resultResponse(result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &Response{OK: true, Result: raw}, nil
}

func rejectionResponse(code, message string) *Response {
	return &Response{OK: false, Error: &ErrorDetail{Code: code, Message: message}}
}
