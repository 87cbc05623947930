package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeRateLimited        ErrorCode = "COMMON_012"
	ErrCodeBodyTooLarge       ErrorCode = "COMMON_013"
)

// Aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")

	CodeMoleculeInvalidSMILES = ErrCodeMoleculeInvalidSMILES
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidSMILES       ErrorCode = "MOL_001"
	ErrCodeFingerprintGenerationFailed ErrorCode = "MOL_007"
	ErrCodeFingerprintMismatch         ErrorCode = "MOL_008"
)

// Analysis Module Error Codes
const (
	ErrCodeAnalysisParamsInvalid ErrorCode = "ACT_001"
	ErrCodeAnalysisFailed        ErrorCode = "ACT_002"
)

// Dataset Module Error Codes
const (
	ErrCodeDatasetUnreadable ErrorCode = "DAT_001"
	ErrCodeColumnMissing     ErrorCode = "DAT_002"
	ErrCodeDatasetEmpty      ErrorCode = "DAT_003"
)

// External resource, export and storage Error Codes
const (
	ErrCodeExternalFetchFailed ErrorCode = "EXT_001"
	ErrCodeExportFailed        ErrorCode = "EXP_001"
	ErrCodeStorageFailed       ErrorCode = "STO_001"
)

type codeInfo struct {
	status  int
	message string
}

var codeTable = map[ErrorCode]codeInfo{
	ErrCodeInternal:           {http.StatusInternalServerError, "internal server error"},
	ErrCodeBadRequest:         {http.StatusBadRequest, "bad request"},
	ErrCodeNotFound:           {http.StatusNotFound, "resource not found"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "service unavailable"},
	ErrCodeValidation:         {http.StatusUnprocessableEntity, "validation failed"},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, "rate limit exceeded, please retry later"},
	ErrCodeBodyTooLarge:       {http.StatusRequestEntityTooLarge, "request body too large"},

	ErrCodeMoleculeInvalidSMILES:       {http.StatusBadRequest, "invalid SMILES format"},
	ErrCodeFingerprintGenerationFailed: {http.StatusInternalServerError, "failed to generate fingerprint"},
	ErrCodeFingerprintMismatch:         {http.StatusBadRequest, "fingerprint configurations differ"},

	ErrCodeAnalysisParamsInvalid: {http.StatusBadRequest, "invalid analysis parameters"},
	ErrCodeAnalysisFailed:        {http.StatusInternalServerError, "analysis failed"},

	ErrCodeDatasetUnreadable: {http.StatusBadRequest, "dataset could not be parsed"},
	ErrCodeColumnMissing:     {http.StatusBadRequest, "required column not found"},
	ErrCodeDatasetEmpty:      {http.StatusBadRequest, "dataset is empty"},

	ErrCodeExternalFetchFailed: {http.StatusBadGateway, "failed to fetch external resource"},
	ErrCodeExportFailed:        {http.StatusInternalServerError, "failed to export results"},
	ErrCodeStorageFailed:       {http.StatusBadGateway, "object storage error"},
}

// Known reports whether code is one of the codes defined here.
func Known(code ErrorCode) bool {
	_, ok := codeTable[code]
	return ok
}

// HTTPStatusForCode returns the HTTP status for code; unknown codes map to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if info, ok := codeTable[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if info, ok := codeTable[code]; ok {
		return info.message
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}

//Personal.AI order the ending
