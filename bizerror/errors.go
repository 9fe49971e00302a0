package bizerror

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidPassword = errors.New("invalid password")

	// InvalidInput
	ErrStepsRequired = errors.New("workflow template requires at least one step")
	ErrInvalidAction = errors.New("invalid step action")

	// Conflict
	ErrTemplateInactive       = errors.New("workflow template is inactive")
	ErrWorkflowAlreadyRunning = errors.New("a workflow is already running for this document")

	// InvalidState
	ErrWorkflowNotRunning      = errors.New("workflow instance is not in progress")
	ErrNoPendingStep           = errors.New("no pending step to process")
	ErrInvalidDocumentStatus   = errors.New("operation not allowed for current document status")
	ErrDocumentContentNotFound = errors.New("document has no stored content")
)

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}

func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
