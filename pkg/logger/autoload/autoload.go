// Package autoload initializes the global logger from the LOG_* env vars
// as a side effect of being imported.
package autoload

import (
	configx "github.com/marova/sliceline/pkg/config"
	logx "github.com/marova/sliceline/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
