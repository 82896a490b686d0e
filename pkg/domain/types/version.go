package types

// Version is overwritten at build time via -ldflags
var Version = "dev"

// AppName is used as service name in health responses and user agents
const AppName = "docsflow"
