package tangerine

import "errors"

var (
	// ErrInvalidDimensions is returned when a staged bitmap has a zero or
	// negative dimension, or a pixel buffer that does not match its size.
	ErrInvalidDimensions = errors.New("tangerine: invalid bitmap dimensions")

	// ErrAtlasFrozen is returned when staging into a builder that has
	// already been finalized.
	ErrAtlasFrozen = errors.New("tangerine: atlas is frozen")

	// ErrAlreadyFinalized is returned by a second Finalize call.
	ErrAlreadyFinalized = errors.New("tangerine: atlas already finalized")

	// ErrPackingOverflow is returned when no atlas size up to the configured
	// maximum fits every staged bitmap.
	ErrPackingOverflow = errors.New("tangerine: packing overflow")

	// ErrUnknownSprite is returned when a draw references a handle that no
	// registered atlas owns.
	ErrUnknownSprite = errors.New("tangerine: unknown sprite")

	// ErrUnknownLayer is returned when a layer name was never registered.
	ErrUnknownLayer = errors.New("tangerine: unknown layer")

	// ErrDuplicateLayer is returned when registering a layer name twice.
	ErrDuplicateLayer = errors.New("tangerine: duplicate layer")

	// ErrDuplicateAtlas is returned when adding two atlases with the same ID
	// to a SpriteRegistry.
	ErrDuplicateAtlas = errors.New("tangerine: duplicate atlas id")

	// ErrInvalidCamera is returned when a camera mutation would leave a
	// non-positive size, aspect ratio, or viewport.
	ErrInvalidCamera = errors.New("tangerine: invalid camera state")
)
