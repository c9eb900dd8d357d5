package dialect

import "fb-dialect/internal/compiler"

// UnsupportedError is returned when a construct has no Firebird syntax. It
// is raised while rendering, before any SQL reaches the server.
type UnsupportedError = compiler.UnsupportedError
