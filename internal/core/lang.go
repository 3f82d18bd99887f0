package core

import "fmt"

// Lang 语言文本查询，按模块缓存语言文件
type Lang struct {
	cache *ConfigCache
}

// NewLang 创建语言查询器
func NewLang(loader Loader) *Lang {
	return &Lang{cache: NewConfigCache(SourceLang, loader)}
}

// Get 获取语言文本
func (l *Lang) Get(key, module string) (string, error) {
	table, err := l.cache.Module(module)
	if err != nil {
		return "", err
	}
	return table.String(key)
}

// Format 获取语言文本并按参数格式化
func (l *Lang) Format(key, module string, args ...any) (string, error) {
	text, err := l.Get(key, module)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(text, args...), nil
}
