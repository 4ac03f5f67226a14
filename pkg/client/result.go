package client

// FailureKind tells a caller why a Result carries no payload.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureNotFound  FailureKind = "not_found"
	FailureRejected  FailureKind = "rejected"
	FailureTransport FailureKind = "transport"
	FailureDecode    FailureKind = "decode"
)

// Result is the outcome of one backend call: either ok with a payload or
// failed with an optional human-readable reason from the server.
type Result[T any] struct {
	value  T
	ok     bool
	kind   FailureKind
	reason string
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

func Fail[T any](kind FailureKind, reason string) Result[T] {
	return Result[T]{kind: kind, reason: reason}
}

func (r Result[T]) OK() bool {
	return r.ok
}

func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

func (r Result[T]) Kind() FailureKind {
	return r.kind
}

// Reason is the server-supplied detail, empty when the server gave none
// or the request never reached it.
func (r Result[T]) Reason() string {
	return r.reason
}

func (r Result[T]) ReasonOr(fallback string) string {
	if r.ok || r.reason == "" {
		return fallback
	}
	return r.reason
}
