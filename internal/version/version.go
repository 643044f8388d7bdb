package version

// Version is set during build via -ldflags "-X github.com/guiyumin/vdl/internal/version.Version=X.Y.Z"
var Version = "dev"
