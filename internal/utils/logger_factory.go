package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger writing to standard error, keeping standard output free for reports.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	return factory.CreateLoggerForSink(requestedLogLevel, requestedLogFormat, zapcore.Lock(os.Stderr))
}

// CreateLoggerForSink produces a zap.Logger honoring the requested level and format that writes to sink.
func (factory *LoggerFactory) CreateLoggerForSink(requestedLogLevel LogLevel, requestedLogFormat LogFormat, sink zapcore.WriteSyncer) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[LogLevel(strings.ToLower(strings.TrimSpace(string(requestedLogLevel))))]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoder, encoderError := newEncoder(LogFormat(strings.ToLower(strings.TrimSpace(string(requestedLogFormat)))))
	if encoderError != nil {
		return nil, encoderError
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(core, zap.ErrorOutput(sink)), nil
}

func newEncoder(requestedLogFormat LogFormat) (zapcore.Encoder, error) {
	switch requestedLogFormat {
	case LogFormatStructured:
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	case LogFormatConsole:
		encoderConfiguration := zap.NewDevelopmentEncoderConfig()
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfiguration), nil
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}
}
