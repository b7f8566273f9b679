package report

import (
	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
)

// LogAlerts logs every alert event. Delivery never affects the run.
type LogAlerts struct {
	log *zap.Logger
}

func NewLogAlerts() *LogAlerts {
	return &LogAlerts{log: common.Log()}
}

func (a *LogAlerts) Raise(alert common.Alert) {
	a.log.Warn("Worker alert.",
		zap.String("name", alert.Name), zap.String("severity", alert.Severity))
}

type multiAlert []AlertChannel

// MultiAlert fans alerts out to every given channel.
func MultiAlert(channels ...AlertChannel) AlertChannel {
	return multiAlert(channels)
}

func (m multiAlert) Raise(alert common.Alert) {
	for _, c := range m {
		c.Raise(alert)
	}
}
