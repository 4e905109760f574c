package deploy

import (
	"github.com/sklirg/cutter/internal/logging"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func init() {
	logger = logging.NewLogger().Named("deploy")
}
