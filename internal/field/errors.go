package field

import "errors"

var (
	// ErrNoSurface indicates the host cannot provide a drawing surface.
	// Mount treats it as a silent no-op.
	ErrNoSurface = errors.New("field: drawing surface unavailable")

	// ErrEmptyPalette indicates a palette without colours.
	ErrEmptyPalette = errors.New("field: palette is empty")

	// ErrUnknownMode is returned by ParseModeStrict for unrecognised names.
	ErrUnknownMode = errors.New("field: unknown mode")

	// ErrBadColor indicates a colour string that is not #rgb, #rrggbb or #rrggbbaa.
	ErrBadColor = errors.New("field: malformed colour")
)
