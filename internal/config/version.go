package config

// Version is the graphcrawl binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/graphcrawl/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
