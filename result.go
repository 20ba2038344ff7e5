package enclaveml

import (
	"fmt"

	"github.com/pkg/errors"
)

// Result is the status vocabulary shared by every boundary call. It
// mirrors the oe_result_t values the original protocol used, so logs
// stay comparable across the C and Go deployments.
type Result uint32

const (
	OK Result = iota
	Failure
	InvalidParameter
	OutOfMemory
	NotFound
	BufferTooSmall
	Unexpected
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case Failure:
		return "FAILURE"
	case InvalidParameter:
		return "INVALID_PARAMETER"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case NotFound:
		return "NOT_FOUND"
	case BufferTooSmall:
		return "BUFFER_TOO_SMALL"
	case Unexpected:
		return "UNEXPECTED"
	default:
		return fmt.Sprintf("RESULT(%d)", uint32(r))
	}
}

// Layer identifies which hop produced an error. Transport means the
// call itself could not be marshalled or delivered: no logic ran on the
// other side and output parameters must not be trusted. The other two
// layers are logic failures of the respective side.
type Layer uint8

const (
	LayerTransport Layer = iota
	LayerEnclave
	LayerHost
)

func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "transport"
	case LayerEnclave:
		return "enclave"
	case LayerHost:
		return "host"
	default:
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
}

// Error carries a Result and the Layer it originated from. Every error
// crossing the boundary is one of these; wrapping with pkg/errors is
// fine as long as the chain bottoms out in an *Error.
type Error struct {
	Layer  Layer
	Result Result
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Layer, e.Result)
	}
	return fmt.Sprintf("%s: %s: %s", e.Layer, e.Result, e.Msg)
}

func resultError(layer Layer, result Result, format string, args ...interface{}) *Error {
	return &Error{
		Layer:  layer,
		Result: result,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// ResultOf extracts the Result from err. A nil error is OK; an error
// with no *Error in its chain is a plain Failure.
func ResultOf(err error) Result {
	if err == nil {
		return OK
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Result
	}
	return Failure
}

// LayerOf extracts the originating Layer from err, defaulting to
// LayerHost for foreign errors, since those come from collaborators on
// the untrusted side (the engine, the runtime).
func LayerOf(err error) Layer {
	var be *Error
	if errors.As(err, &be) {
		return be.Layer
	}
	return LayerHost
}

// IsResult reports whether err's Result equals r.
func IsResult(err error, r Result) bool {
	return ResultOf(err) == r
}

// IsTransport reports whether err is a marshalling/mechanism failure,
// i.e. the remote side never ran.
func IsTransport(err error) bool {
	return err != nil && LayerOf(err) == LayerTransport
}
