package util

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrConfirmationDeclined = errors.New("deletion not confirmed")
	ErrParentNotSelected    = errors.New("parent entity is not selected")
	ErrUnknownResource      = errors.New("unknown resource")
	ErrUnsupportedGameType  = errors.New("game type has no content editor")
	ErrBusy                 = errors.New("another mutation is in flight")
	ErrStaleResponse        = errors.New("response arrived after the view was closed")
	ErrInvalidAudio         = errors.New("file must be an audio file")
	ErrAudioTooLarge        = errors.New("audio file is too large")
)
