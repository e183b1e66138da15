package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/auctionet/auctionet/auction"
	"github.com/auctionet/auctionet/crypto"
	"github.com/auctionet/auctionet/metrics"
)

// ErrUnknownOperation is the one failure that surfaces at the transport
// level instead of as a response payload: there is no handler to
// produce a domain rejection for it.
var ErrUnknownOperation = errors.New("unknown operation")

// Rejection codes carried in response payloads.
const (
	CodeMissingField  = "missing_field"
	CodeBadPayload    = "bad_payload"
	CodeAlreadyExists = "already_exists"
	CodeNotFound      = "not_found"
	CodeClosed        = "closed"
	CodeBidTooLow     = "bid_too_low"
	CodeNotOwner      = "not_owner"
	CodeAlreadyClosed = "already_closed"
)

// Success messages, fixed wire strings.
const (
	msgAuctionOpened = "Auction opened successfully"
	msgBidPlaced     = "Bid placed successfully"
)

// Service maps inbound operations onto the auction registry.
type Service struct {
	registry *auction.Registry
	log      *slog.Logger
}

// New creates a coordination service over the given registry.
func New(registry *auction.Registry, log *slog.Logger) (*Service, error) {
	if registry == nil {
		return nil, errors.New("registry cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{registry: registry, log: log}, nil
}

// Handle dispatches one request and returns the encoded response
// payload. Every domain outcome, success or rejection, is a normal
// response; only an unrecognized operation returns an error.
func (s *Service) Handle(ctx context.Context, op Operation, payload []byte, caller crypto.PublicKey) (out []byte, err error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	start := time.Now()

	// A handler panic must degrade to a rejection response, never
	// crash the request path or leak a stack to the caller.
	var resp *Response
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panic recovered", "operation", op, "panic", r)
			resp = rejectionResponse(CodeBadPayload, "malformed request payload")
			out, err = EncodeMessage(resp)
		}
		if err == nil && resp != nil {
			metrics.RequestsTotal.WithLabelValues(string(op), outcomeLabel(resp)).Inc()
			metrics.RequestDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
			metrics.AuctionsLive.Set(float64(s.registry.Len()))
		}
	}()

	switch op {
	case OpOpenAuction:
		resp = s.handleOpen(payload, caller)
	case OpPlaceBid:
		resp = s.handleBid(payload, caller)
	case OpCloseAuction:
		resp = s.handleClose(payload, caller)
	}

	return EncodeMessage(resp)
}

func (s *Service) handleOpen(payload []byte, caller crypto.PublicKey) *Response {
	req, err := DecodeMessage[OpenRequest](payload)
	if err != nil {
		return rejectionResponse(CodeBadPayload, "malformed request payload")
	}
	if req.ID == "" || req.Item == "" || req.Owner == "" || req.Price <= 0 {
		return rejectionResponse(CodeMissingField, "missing required parameters for opening an auction")
	}

	if err := s.registry.Open(req.ID, req.Item, req.Price, req.Owner); err != nil {
		return s.rejectionFor(err)
	}

	s.log.Info("auction opened",
		"id", req.ID, "item", req.Item, "reserve", req.Price,
		"owner", req.Owner, "caller", caller.String())
	return successResponse(msgAuctionOpened)
}

func (s *Service) handleBid(payload []byte, caller crypto.PublicKey) *Response {
	req, err := DecodeMessage[BidRequest](payload)
	if err != nil {
		return rejectionResponse(CodeBadPayload, "malformed request payload")
	}
	if req.ID == "" || req.BidderPubKey == "" || req.Bid <= 0 {
		return rejectionResponse(CodeMissingField, "missing required parameters for placing a bid")
	}

	highest, err := s.registry.Bid(req.ID, req.Bid, req.BidderPubKey)
	if err != nil {
		return s.rejectionFor(err)
	}

	s.log.Info("bid placed",
		"id", req.ID, "bid", highest, "bidder", req.BidderPubKey,
		"caller", caller.String())
	return successResponse(msgBidPlaced)
}

func (s *Service) handleClose(payload []byte, caller crypto.PublicKey) *Response {
	req, err := DecodeMessage[CloseRequest](payload)
	if err != nil {
		return rejectionResponse(CodeBadPayload, "malformed request payload")
	}
	if req.ID == "" || req.Owner == "" {
		return rejectionResponse(CodeMissingField, "missing required parameters for closing an auction")
	}

	settlement, err := s.registry.Close(req.ID, req.Owner)
	if err != nil {
		return s.rejectionFor(err)
	}

	s.log.Info("auction closed",
		"id", req.ID, "winner", settlement.Winner, "price", settlement.Price,
		"caller", caller.String())

	resp, err := resultResponse(&CloseResult{Winner: settlement.Winner, Price: settlement.Price})
	if err != nil {
		// CloseResult always marshals; treat anything else as a decode-tier fault.
		return rejectionResponse(CodeBadPayload, err.Error())
	}
	return resp
}

// rejectionFor translates a registry error into a response payload.
func (s *Service) rejectionFor(err error) *Response {
	switch {
	case errors.Is(err, auction.ErrAlreadyExists):
		return rejectionResponse(CodeAlreadyExists, err.Error())
	case errors.Is(err, auction.ErrNotFound):
		return rejectionResponse(CodeNotFound, err.Error())
	case errors.Is(err, auction.ErrClosed):
		return rejectionResponse(CodeClosed, err.Error())
	case errors.Is(err, auction.ErrBidTooLow):
		return rejectionResponse(CodeBidTooLow, err.Error())
	case errors.Is(err, auction.ErrNotOwner):
		return rejectionResponse(CodeNotOwner, err.Error())
	case errors.Is(err, auction.ErrAlreadyClosed):
		return rejectionResponse(CodeAlreadyClosed, err.Error())
	default:
		return rejectionResponse(CodeMissingField, err.Error())
	}
}

func outcomeLabel(resp *Response) string {
	if resp == nil {
		return "unknown"
	}
	if resp.OK {
		return "ok"
	}
	if resp.Error != nil {
		return resp.Error.Code
	}
	return "rejected"
}
