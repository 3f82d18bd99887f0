package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// IsASCII 是否只包含 7 位 ASCII 字符
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// Encode 将字符串从 from 编码转换为 to 编码，丢弃无效字节和目标编码无法表示的字符
func Encode(s, to, from string) (string, error) {
	if strings.EqualFold(to, "UTF-8") && IsASCII(s) {
		return s, nil
	}

	src, err := lookupEncoding(from)
	if err != nil {
		return "", err
	}
	dst, err := lookupEncoding(to)
	if err != nil {
		return "", err
	}

	decoded, err := src.NewDecoder().String(s)
	if err != nil {
		return "", fmt.Errorf("decode from %s: %v", from, err)
	}

	encoder := dst.NewEncoder()
	var b strings.Builder
	for _, r := range decoded {
		if r == utf8.RuneError {
			continue
		}
		out, err := encoder.String(string(r))
		if err != nil {
			continue
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %v", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}
