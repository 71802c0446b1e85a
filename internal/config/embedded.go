package config

// EmbeddedGeminiKey is injected at build time via ldflags and serves as the
// default assistant key. The config file and environment still override it.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/wikistars5/wikistars5/internal/config.EmbeddedGeminiKey=xxx'"
var EmbeddedGeminiKey string
