package renderer

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to the glog info log
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}
