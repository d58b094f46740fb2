package xerr

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

type ErrorCode string

// Codes shared by the xcommon packages.
const (
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	CodeUnknownFlavor ErrorCode = "UNKNOWN_FLAVOR"
)

type Reason interface {
	Code() ErrorCode
	Message() string
}

type HTTPAware interface {
	HTTPCode() int
}

type GRPCAware interface {
	GRPCCode() codes.Code
}

type SimpleReason struct {
	ErrorCode    ErrorCode `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

func NewSimpleReason(errorCode ErrorCode, message string) Reason {
	return &SimpleReason{ErrorCode: errorCode, ErrorMessage: message}
}

func (r *SimpleReason) Code() ErrorCode {
	return r.ErrorCode
}

func (r *SimpleReason) Message() string {
	return r.ErrorMessage
}

type MultiReason struct {
	SimpleReason
	StatusCode int        `json:"http_status_code,omitempty"`
	GrpcCode   codes.Code `json:"grpc_code,omitempty"`
}

func NewMultiReason(code ErrorCode, message string, httpStatus int, grpcCode codes.Code) Reason {
	return &MultiReason{
		SimpleReason: SimpleReason{
			ErrorCode:    code,
			ErrorMessage: message,
		},
		StatusCode: httpStatus,
		GrpcCode:   grpcCode,
	}
}

func (r *MultiReason) HTTPCode() int {
	return r.StatusCode
}

func (r *MultiReason) GRPCCode() codes.Code {
	return r.GrpcCode
}

func GetHTTPCode(reason Reason) int {
	if httpReason, ok := reason.(HTTPAware); ok {
		return httpReason.HTTPCode()
	}
	// Default fallback
	return http.StatusInternalServerError
}

func GetGRPCCode(reason Reason) codes.Code {
	if grpcReason, ok := reason.(GRPCAware); ok {
		return grpcReason.GRPCCode()
	}
	// Default fallback
	return codes.Unknown
}

// Configuration builds an error for missing or invalid backend settings.
// It maps to 500 over HTTP and FailedPrecondition over gRPC.
func Configuration(code ErrorCode, message string, cause error) Error {
	return New(NewMultiReason(code, message, http.StatusInternalServerError, codes.FailedPrecondition), cause)
}

func ErrorToHTTPStatus(err Error) int {
	if err == nil {
		return http.StatusOK
	}
	return GetHTTPCode(err.Reason())
}

func ErrorToGRPCCode(err Error) codes.Code {
	if err == nil {
		return codes.OK
	}
	return GetGRPCCode(err.Reason())
}
