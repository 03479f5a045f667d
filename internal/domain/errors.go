package domain

import "errors"

var (
	ErrConfig            = errors.New("config error")
	ErrFetch             = errors.New("fetch error")
	ErrFormat            = errors.New("format error")
	ErrMissingConversion = errors.New("conversion inputs missing")
	ErrPublish           = errors.New("publish error")
	ErrDelete            = errors.New("delete error")
	ErrPhotoLogin        = errors.New("photo login error")
	ErrPhotoPublish      = errors.New("photo publish error")
	ErrMail              = errors.New("mail error")
)
