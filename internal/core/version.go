package core

// ToolName and Version identify this scanner on the wire.
const ToolName = "JiraScan"

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"

// UserAgent returns the fixed User-Agent header value.
func UserAgent() string { return ToolName + "/" + Version }
