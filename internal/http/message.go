package http

import (
	"strings"

	"github.com/micromvc-go/pkg/utils"
)

// Messages 单个请求内的提示消息（error、warning、success、message 等）
type Messages struct {
	types  []string
	values map[string][]string
}

// NewMessages 创建空的消息集合
func NewMessages() *Messages {
	return &Messages{values: make(map[string][]string)}
}

// Add 添加一条消息
func (m *Messages) Add(typ, value string) {
	if _, exists := m.values[typ]; !exists {
		m.types = append(m.types, typ)
	}
	m.values[typ] = append(m.values[typ], value)
}

// Render 渲染指定类型的消息，typ 为空时按添加顺序渲染全部
func (m *Messages) Render(typ string) string {
	var b strings.Builder
	if typ != "" {
		m.render(&b, typ)
		return b.String()
	}
	for _, t := range m.types {
		m.render(&b, t)
	}
	return b.String()
}

func (m *Messages) render(b *strings.Builder, typ string) {
	for _, value := range m.values[typ] {
		b.WriteString(`<div class = "` + utils.H(typ) + `">` + utils.H(value) + "</div>")
	}
}

// Message 有 value 时添加消息并返回空串，否则渲染 typ 对应的消息
func (m *Messages) Message(typ, value string) string {
	if value != "" {
		m.Add(typ, value)
		return ""
	}
	return m.Render(typ)
}
