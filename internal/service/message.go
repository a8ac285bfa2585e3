package service

import "github.com/matheuskafuri/recentdrive/internal/cache"

// Request is a message from the UI to the background service. The unexported
// method keeps the set of variants closed to this package.
type Request interface {
	isRequest()
}

// GetFileList asks for the current file list, optionally bypassing the cache.
type GetFileList struct {
	ForceRefresh bool
}

func (GetFileList) isRequest() {}

// Failure names why a request came back empty.
type Failure string

const (
	FailureNone  Failure = ""
	FailureAuth  Failure = "auth"
	FailureFetch Failure = "fetch"
)

// Response carries the files for a request. A failed request still carries
// an empty list; Failure says which side gave up.
type Response struct {
	Files   []cache.FileRecord
	Failure Failure
}
