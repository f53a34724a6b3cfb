package alumni

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidPhoneFormat = errors.New("invalid mobile phone format")
	ErrResultNotFound     = errors.New("import result not found")
	ErrImportJobNotFound  = errors.New("import job not found")
)
