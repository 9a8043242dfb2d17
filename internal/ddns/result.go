package ddns

// Status is the outcome of a request as reported to clients.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFail    Status = "FAIL"
)

// Result is the outcome of processing one request.
type Result struct {
	Status  Status
	Message string
}

// Success returns a successful Result carrying msg.
func Success(msg string) Result {
	return Result{Status: StatusSuccess, Message: msg}
}

// Failure returns a failed Result whose message is err's text.
func Failure(err error) Result {
	return Result{Status: StatusFail, Message: err.Error()}
}

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.Status == StatusSuccess }
