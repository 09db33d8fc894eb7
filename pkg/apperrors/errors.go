package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNotSellSide     = errors.New("matching is only defined for sell-side engagements")
	ErrNoLinkedCompany = errors.New("engagement has no linked company")
	ErrRunInProgress   = errors.New("a matching run is already in progress for this engagement")
	ErrRateLimited     = errors.New("scoring provider rate limited")
	ErrQuotaExhausted  = errors.New("scoring provider quota exhausted")
	ErrScorerProtocol  = errors.New("scoring provider returned no usable result")
	ErrMissingRole     = errors.New("caller lacks required role")
)
