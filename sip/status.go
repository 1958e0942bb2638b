package sip

// A subset of SIP response status codes. Codes not named here are passed
// as a raw int to NewResponse.
const (
	StatusTrying                 = 100
	StatusRinging                = 180
	StatusOK                     = 200
	StatusAccepted               = 202
	StatusMovedPermanently       = 301
	StatusMovedTemporarily       = 302
	StatusBadRequest             = 400
	StatusUnauthorized           = 401
	StatusForbidden              = 403
	StatusNotFound               = 404
	StatusRequestTimeout         = 408
	StatusExtensionRequired      = 421
	StatusIntervalTooBrief       = 423
	StatusBadLocationInformation = 424
	StatusInternalServerError    = 500
	StatusNotImplemented         = 501
	StatusServiceUnavailable     = 503
	StatusVersionNotSupported    = 505
	StatusMessageTooLarge        = 513
	StatusBusyEverywhere         = 600
	StatusDecline                = 603
)
