package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MessageLog 按天写入的访问日志，路径为 <root>/App/Log/YYYY-MM-DD.log，
// 每行格式为 "HH:MM:SS <ip> <message>"
type MessageLog struct {
	dir   string
	now   func() time.Time
	out   *logrus.Logger
	file  *os.File
	day   string
	mutex sync.Mutex
}

// lineFormatter 只输出时间、IP 与消息
type lineFormatter struct{}

// Format 实现 logrus.Formatter
func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ip, _ := entry.Data["ip"].(string)
	return []byte(fmt.Sprintf("%s %s %s\n", entry.Time.Format("15:04:05"), ip, entry.Message)), nil
}

// NewMessageLog 创建访问日志
func NewMessageLog(root string) *MessageLog {
	out := logrus.New()
	out.SetFormatter(lineFormatter{})
	out.SetLevel(logrus.InfoLevel)

	return &MessageLog{
		dir: filepath.Join(root, "App", "Log"),
		now: time.Now,
		out: out,
	}
}

// Write 写入一条日志
func (m *MessageLog) Write(ip, message string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	if err := m.rotate(now); err != nil {
		return err
	}

	m.out.WithTime(now).WithField("ip", ip).Info(strings.TrimRight(message, "\n"))
	return nil
}

// Path 指定日期对应的日志文件
func (m *MessageLog) Path(t time.Time) string {
	return filepath.Join(m.dir, t.Format("2006-01-02")+".log")
}

// Close 关闭当前日志文件
func (m *MessageLog) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	m.day = ""
	return err
}

// rotate 日期变化时切换文件
func (m *MessageLog) rotate(now time.Time) error {
	day := now.Format("2006-01-02")
	if m.file != nil && day == m.day {
		return nil
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(m.Path(now), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}

	if m.file != nil {
		_ = m.file.Close()
	}
	m.file = file
	m.day = day
	m.out.SetOutput(file)
	return nil
}
