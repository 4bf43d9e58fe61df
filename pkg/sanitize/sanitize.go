package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// strict удаляет всю разметку, оставляя только текст
var strict = bluemonday.StrictPolicy()

// Text очищает пользовательский ввод от HTML и обрезает пробелы по краям
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// TextPtr как Text, но для опциональных полей; пустой результат превращается в nil
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := Text(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

// Length длина строки в символах
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
