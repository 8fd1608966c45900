package version

// Version is overridden at build time via -ldflags "-X hljsgen/internal/shared/version.Version=...".
var Version = "1.0.0"
