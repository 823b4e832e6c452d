package commands

// NeedsWrite exports needsWrite for testing.
var NeedsWrite = needsWrite //nolint:gochecknoglobals // test export
