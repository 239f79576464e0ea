package api

import (
	"strings"
	"unicode"
)

// TextFilter - проверка пользовательского текста (имена, чат).
// Политика фильтра живет снаружи ядра, ядро только спрашивает.
type TextFilter interface {
	// Clean возвращает текст с замаскированными словами
	Clean(text string) string
	// Blocked - true, если сообщение нужно выбросить целиком
	Blocked(text string) bool
}

// WordFilter - простой фильтр по списку слов (целые слова, без учета регистра)
type WordFilter struct {
	words map[string]struct{}
}

var defaultBadWords = []string{
	"ass", "bitch", "damn", "fuck", "shit", "crap", "piss", "cock", "dick",
	"pussy", "whore", "slut", "bastard", "asshole", "douchebag", "motherfucker",
	"nigger", "nigga", "faggot", "retard", "kys", "kms",
}

// NewWordFilter создает фильтр. Без слов - берется встроенный список.
func NewWordFilter(words ...string) *WordFilter {
	if len(words) == 0 {
		words = defaultBadWords
	}
	f := &WordFilter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		f.words[strings.ToLower(w)] = struct{}{}
	}
	return f
}

func (f *WordFilter) Clean(text string) string {
	runes := []rune(text)
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if _, bad := f.words[strings.ToLower(string(runes[start:end]))]; bad {
			for i := start; i < end; i++ {
				runes[i] = '*'
			}
		}
		start = -1
	}
	for i, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(runes))
	return string(runes)
}

func (f *WordFilter) Blocked(text string) bool {
	return f.Clean(text) != text
}
