package common

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var once sync.Once
var logger *zap.Logger = nil

func Log() *zap.Logger {
	once.Do(func() {
		loggerConfig := zap.NewDevelopmentConfig()
		loggerConfig.EncoderConfig.EncodeCaller = nil
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err := loggerConfig.Build()
		if err != nil {
			panic(err)
		}
		logger = l
	})
	return logger
}

func SugaredLog() *zap.SugaredLogger {
	return Log().Sugar()
}
