// Package logger 基于zap构建应用日志器。
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 根据运行环境和配置创建日志器。
// env 为 "prod" 时使用生产配置（JSON、采样），否则使用开发配置；
// level 支持 debug/info/warn/error；encoding 支持 json/console。
// 应用名和版本会作为固定字段附加到每条日志。
func New(env, level, encoding, appName, version string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lv, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lv)
	}

	if encoding != "" {
		if encoding != "json" && encoding != "console" {
			return nil, fmt.Errorf("invalid log encoding %q", encoding)
		}
		cfg.Encoding = encoding
		if encoding == "json" {
			// 彩色级别编码只适用于 console 输出
			cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		}
	}

	cfg.InitialFields = map[string]interface{}{
		"app":     appName,
		"version": version,
	}

	lg, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return lg, nil
}
