package executor

import "github.com/vuon9/workdiff/internal/models"

// schemaVersion versions the closed request/response message schema
// exchanged between the pool and its executors. Both sides validate it at
// the boundary; a mismatch is a protocol error and the executor holding the
// task is discarded.
const schemaVersion = 1

// taskRequest is the only message an executor accepts.
type taskRequest struct {
	Version int                      `json:"version"`
	Seq     uint64                   `json:"seq"`
	Request models.ComparisonRequest `json:"request"`
}

// taskResponse is the only message an executor produces. Exactly one of
// Result and Err is meaningful. Fatal marks responses after which the
// executor must be discarded (panic or protocol error).
type taskResponse struct {
	Version int                      `json:"version"`
	Seq     uint64                   `json:"seq"`
	Result  *models.ComparisonResult `json:"result,omitempty"`
	Err     string                   `json:"error,omitempty"`
	Fatal   bool                     `json:"fatal,omitempty"`
}

// valid reports whether a response is well-formed for the given request.
func (r taskResponse) valid(req taskRequest) bool {
	return r.Version == schemaVersion && r.Seq == req.Seq
}
