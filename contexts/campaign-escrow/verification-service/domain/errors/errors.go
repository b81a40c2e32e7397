package errors

import "errors"

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrInvalidCampaignInput   = errors.New("invalid campaign input")
	ErrCampaignNotOpen        = errors.New("campaign is not open")
	ErrNotAParticipant        = errors.New("creator is not a participant")
	ErrAlreadyJoined          = errors.New("creator already joined campaign")
	ErrInvalidSubmissionInput = errors.New("invalid submission input")
	ErrDuplicateSubmission    = errors.New("duplicate submission")
	ErrInvalidTransition      = errors.New("invalid campaign status transition")
	ErrAlreadySettled         = errors.New("campaign already settled")
	ErrReceiptNotFound        = errors.New("payout receipt not found")
	ErrSettlementFailed       = errors.New("settlement call failed")
)
