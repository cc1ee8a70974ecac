package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Барахолка
	OfferNotFound       failure.ErrorCode = "OfferNotFound"
	InvalidOfferID      failure.ErrorCode = "InvalidOfferID"
	InvalidRequirements failure.ErrorCode = "InvalidRequirements"
	InvalidBundle       failure.ErrorCode = "InvalidBundle"
	TemplateNotFound    failure.ErrorCode = "TemplateNotFound"
	TraderNotFound      failure.ErrorCode = "TraderNotFound"
	InvalidTraderID     failure.ErrorCode = "InvalidTraderID"
	TraderAssortEmpty   failure.ErrorCode = "TraderAssortEmpty"
	ProfileNotFound     failure.ErrorCode = "ProfileNotFound"
	ProfileIDRequired   failure.ErrorCode = "ProfileIDRequired"
	InvalidTuning       failure.ErrorCode = "InvalidTuning"
)
