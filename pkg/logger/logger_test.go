package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uni-scheduler/backend/config"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&config.LogConfig{Level: "verbose", Format: "json"})
	if err == nil {
		t.Fatal("期望无效日志级别返回错误")
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := NewLogger(&config.LogConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("NewLogger 失败: %v", err)
	}

	Component(log, "generation").Info("自动排课完成")
	Component(log, "generation").Debug("低于级别不输出")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	out := string(data)

	for _, want := range []string{`"service":"uni-scheduler"`, `"logger":"generation"`, `"time":"`} {
		if !strings.Contains(out, want) {
			t.Errorf("日志缺少 %s: %s", want, out)
		}
	}
	if strings.Contains(out, "低于级别不输出") {
		t.Error("debug 日志不应输出")
	}
}
