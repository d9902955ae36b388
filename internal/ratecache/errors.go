package ratecache

import "fmt"

// Steps of a lookup that can fail, recorded in FetchError.Op.
const (
	OpReadTimestamp    = "read_timestamp"
	OpFetchRemote      = "fetch_remote"
	OpPersistSnapshot  = "persist_snapshot"
	OpPersistTimestamp = "persist_timestamp"
	OpReadSnapshot     = "read_snapshot"
)

// FetchError reports that a current rate list could not be obtained.
// Callers treat every FetchError alike; Op and Err are kept for logs.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to obtain exchange rates (%s): %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
