package publish

import "fmt"

// NotARepositoryError means the working directory is not inside a git
// repository.
type NotARepositoryError struct {
	Path string
	Err  error
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("not a git repository: %s: %v", e.Path, e.Err)
}
func (e *NotARepositoryError) Unwrap() error { return e.Err }

// NoRemoteError means the configured remote does not exist in the
// repository.
type NoRemoteError struct {
	Remote string
	Err    error
}

func (e *NoRemoteError) Error() string {
	return fmt.Sprintf("remote %q not configured: %v", e.Remote, e.Err)
}
func (e *NoRemoteError) Unwrap() error { return e.Err }

// PushError wraps a failure to push the publishing branch.
type PushError struct {
	Remote string
	Branch string
	Err    error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push %s to %s failed: %v", e.Branch, e.Remote, e.Err)
}
func (e *PushError) Unwrap() error { return e.Err }
