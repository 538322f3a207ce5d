// Package logging configures gitglob's slog output.
//
// Without --debug only warnings reach stderr, as plain text. With --debug,
// JSON records at debug level are also written to a size-rotated file under
// ~/.gitglob/logs/. The MCP server logs to the file only, since stdout and
// stderr belong to the protocol stream.
package logging
