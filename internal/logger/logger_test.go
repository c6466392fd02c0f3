package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"", zapcore.WarnLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.WarnLevel, true},
	}

	for _, tt := range tests {
		level, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr || level != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, %v; expected %v", tt.input, level, err, tt.expected)
		}
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Console: true, Output: &buf})
	if err != nil {
		t.Fatalf("Ошибка создания логгера: %v", err)
	}

	log.Debug("скрытое сообщение")
	log.Info("видимое сообщение", zap.String("filename", "1Re1.mp3"))
	_ = log.Sync()

	output := buf.String()
	if strings.Contains(output, "скрытое") {
		t.Error("Debug не должен выводиться на уровне info")
	}
	if !strings.Contains(output, "видимое сообщение") || !strings.Contains(output, "1Re1.mp3") {
		t.Errorf("Ожидалось сообщение с полем, получено: %s", output)
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tafsir.log")
	log, err := New(Config{Level: "warn", File: path, MaxSize: 1})
	if err != nil {
		t.Fatalf("Ошибка создания логгера: %v", err)
	}

	log.Warn("ошибка скачивания", zap.String("filename", "out1.mp3"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Файл логов не создан: %v", err)
	}
	if !strings.Contains(string(data), `"filename":"out1.mp3"`) {
		t.Errorf("Ожидалась JSON-запись, получено: %s", data)
	}
}

func TestNopWithoutOutputs(t *testing.T) {
	log, err := New(Config{})
	if err != nil || log == nil {
		t.Fatalf("Ожидался пустой логгер, получено %v (%v)", log, err)
	}
	log.Error("ничего не выводится")
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud", Console: true}); err == nil {
		t.Error("Ожидалась ошибка неизвестного уровня")
	}
}
