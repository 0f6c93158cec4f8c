package wav

import "errors"

var (
	// ErrUnrecognisedFormat is returned when the RIFF/WAVE header fails validation.
	ErrUnrecognisedFormat = errors.New("unrecognised WAVE format")
	// ErrInvalidAudioData is returned when a writer's channel set is invalid.
	ErrInvalidAudioData = errors.New("invalid audio data")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrAlreadyFlushed   = errors.New("writer already flushed")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrInvalidArgument  = errors.New("invalid argument")
	// ErrUnsupportedSize is returned for sources or outputs that do not fit
	// the 32-bit RIFF size fields.
	ErrUnsupportedSize = errors.New("unsupported size")
	ErrClosed          = errors.New("closed")
)
