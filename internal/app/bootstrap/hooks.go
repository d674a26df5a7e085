// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires scribe into WAFFLE's lifecycle: config load and validation,
// Mongo connect, schema/index setup, then the router build.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "scribe",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema,
	Startup:        Startup,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
