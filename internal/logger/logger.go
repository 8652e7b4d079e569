package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// LogBuild 日志构建器
type LogBuild struct {
	writer io.Writer
	path   string
	level  string
}

// LogData 构建结果，持有日志文件句柄
type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

// New 创建日志构建器
func New() *LogBuild {
	return &LogBuild{}
}

// FromPath 同时写入日志文件
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

// FromBuffer 替换默认的标准输出
func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel 设置日志级别，空字符串为 info
func (build *LogBuild) WithLevel(level string) *LogBuild {
	build.level = level
	return build
}

// Make 构建日志器
func (build *LogBuild) Make() (logData *LogData, err error) {
	level := zerolog.InfoLevel
	if build.level != "" {
		level, err = zerolog.ParseLevel(strings.ToLower(build.level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", build.level, err)
		}
	}

	logData = new(LogData)
	var writer io.Writer = os.Stdout
	if build.writer != nil {
		writer = build.writer
	}
	if build.path != "" {
		if err = os.MkdirAll(filepath.Dir(build.path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.MultiLevelWriter(writer, zerolog.SyncWriter(logData.LogFile))
	}
	logData.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return
}

// Close 关闭日志文件
func (d *LogData) Close() error {
	if d.LogFile == nil {
		return nil
	}
	return d.LogFile.Close()
}
