package utils

import (
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// H 转义 HTML 特殊字符（含单双引号）
func H(s string) string {
	return html.EscapeString(s)
}

// Base64URLEncode 编码为可放入 URL 的 base64 字符串（+/= 替换为 -_~）
func Base64URLEncode(data []byte) string {
	return base64URLReplacer.Replace(base64.StdEncoding.EncodeToString(data))
}

// Base64URLDecode 解码 Base64URLEncode 的结果
func Base64URLDecode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64StdReplacer.Replace(s))
}

var (
	base64URLReplacer = strings.NewReplacer("+", "-", "/", "_", "=", "~")
	base64StdReplacer = strings.NewReplacer("-", "+", "_", "/", "~", "=")
)

// Int 将标量转换为整数并限制在 [min, max] 内；非数字时返回 min。
// min、max 为 nil 表示不限制
func Int(v any, min, max *int) *int {
	var result *int

	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		i := cast.ToInt(n)
		result = &i
	case string:
		if digitsPattern.MatchString(n) {
			if i, err := strconv.Atoi(n); err == nil {
				result = &i
			}
		}
	}

	if result == nil {
		result = copyInt(min)
	}
	if result == nil {
		return nil
	}

	if min != nil && *result < *min {
		*result = *min
	}
	if max != nil && *result > *max {
		*result = *max
	}
	return result
}

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Str 将标量转换为字符串，非标量返回默认值
func Str(v any, def string) string {
	if !isScalar(v) {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// SQLDate 返回 SQL datetime 字符串，零值时间使用当前时间
func SQLDate(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("2006-01-02 15:04:05")
}

// Token 生成 32 位十六进制随机令牌
func Token() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:])
}

// Dump 返回变量的 HTML 安全输出，每个值包在 <pre> 中
func Dump(values ...any) string {
	var b strings.Builder
	for _, v := range values {
		var text string
		switch {
		case v == nil:
			text = "NULL"
		case isScalar(v):
			text = Str(v, "")
		default:
			text = strings.TrimRight(dumpConfig.Sdump(v), "\n")
		}
		b.WriteString("<pre>" + H(text) + "</pre>\n")
	}
	return b.String()
}

var dumpConfig = &spew.ConfigState{Indent: "    ", DisablePointerAddresses: true, SortKeys: true}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// SiteURL 拼接站点 URL；uri 含协议时原样返回（去掉开头的 /）
func SiteURL(base, uri string) string {
	uri = strings.TrimLeft(uri, "/")
	if strings.Contains(uri, "://") {
		return uri
	}
	return base + uri
}

// IsLocalPath 是否为站内绝对路径（以单个 / 开头且不含协议）
func IsLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	return !strings.Contains(p, "://")
}
