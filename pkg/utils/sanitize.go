package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	unsafeChars    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\-. ]+`)
	extraSpace     = regexp.MustCompile(`\s\s+`)
	repeatedDots   = regexp.MustCompile(`\.\.+`)
	repeatedDashes = regexp.MustCompile(`--+`)
	repeatedUnders = regexp.MustCompile(`__+`)
)

// Sanitize 只保留字母、数字、-、_、. 和空格，合并重复符号并去掉首尾的 -._ 和空格。
// spaces 为 false 时空格替换为 -
func Sanitize(s string, spaces bool) string {
	s = unsafeChars.ReplaceAllString(s, " ")
	s = extraSpace.ReplaceAllString(s, " ")
	s = repeatedDots.ReplaceAllString(s, ".")
	s = repeatedDashes.ReplaceAllString(s, "-")
	s = repeatedUnders.ReplaceAllString(s, "_")

	if !spaces {
		s = repeatedDashes.ReplaceAllString(strings.ReplaceAll(s, " ", "-"), "-")
	}

	return strings.Trim(s, "-._ ")
}

// SanitizeURL 生成适合 URL 的小写片段
func SanitizeURL(s string) string {
	return url.QueryEscape(strings.ToLower(Sanitize(s, false)))
}

// SanitizeFilename 生成安全的文件名
func SanitizeFilename(s string) string {
	return Sanitize(s, false)
}
