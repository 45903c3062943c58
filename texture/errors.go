package texture

import "errors"

var (
	// ErrInvalidSize is returned for textures with a non-positive dimension.
	ErrInvalidSize = errors.New("texture: invalid size")

	// ErrUnsupportedFormat is returned for formats other than R8Unorm and RGBA8Unorm.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")

	// ErrUnknownHandle is returned by renderers for commands that name a
	// handle they never saw created.
	ErrUnknownHandle = errors.New("texture: unknown handle")
)
