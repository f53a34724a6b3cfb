package alumni

import "errors"

var (
	ErrInvalidImportRequest = errors.New("invalid import request")
	ErrAllocateBatchID      = errors.New("failed to allocate batch id")
	ErrInvalidImportSource  = errors.New("invalid import source")
	ErrEnqueueImportJob     = errors.New("failed to enqueue import job")
	ErrInvalidMemberID      = errors.New("invalid member id")
	ErrMemberNotFound       = errors.New("member not found")
	ErrGetMember            = errors.New("failed to get member")
	ErrInvalidImportJobID   = errors.New("invalid import job id")
	ErrImportJobNotFound    = errors.New("import job not found")
	ErrGetImportJob         = errors.New("failed to get import job")
)
