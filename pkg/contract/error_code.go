package contract

// ErrorCode classifies a failure so clients can tell apart a bad upload, a wrong
// password, a deleted dataset and an unavailable server.
type ErrorCode int32

const (
	ErrorCode_INTERNAL_ERROR ErrorCode = iota + 1
	ErrorCode_BAD_REQUEST
	ErrorCode_INVALID_PARAMETER_VALUE
	ErrorCode_ENDPOINT_NOT_FOUND
	ErrorCode_PARSE_ERROR
	ErrorCode_VALIDATION_ERROR
	ErrorCode_RESOURCE_DOES_NOT_EXIST
	ErrorCode_PERMISSION_DENIED
	ErrorCode_STORE_UNAVAILABLE
	ErrorCode_RENDER_ERROR
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_INTERNAL_ERROR:          "INTERNAL_ERROR",
	ErrorCode_BAD_REQUEST:             "BAD_REQUEST",
	ErrorCode_INVALID_PARAMETER_VALUE: "INVALID_PARAMETER_VALUE",
	ErrorCode_ENDPOINT_NOT_FOUND:      "ENDPOINT_NOT_FOUND",
	ErrorCode_PARSE_ERROR:             "PARSE_ERROR",
	ErrorCode_VALIDATION_ERROR:        "VALIDATION_ERROR",
	ErrorCode_RESOURCE_DOES_NOT_EXIST: "RESOURCE_DOES_NOT_EXIST",
	ErrorCode_PERMISSION_DENIED:       "PERMISSION_DENIED",
	ErrorCode_STORE_UNAVAILABLE:       "STORE_UNAVAILABLE",
	ErrorCode_RENDER_ERROR:            "RENDER_ERROR",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}

	return "INTERNAL_ERROR"
}
