// Package locale holds the small amount of language-aware formatting the
// marketplace needs: case folding for search, display prices and day
// separator labels for the chat window.
package locale

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Language string

const (
	English Language = "en"
	Thai    Language = "th"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Thai})

// Parse picks the closest supported language for an Accept-Language style
// value. Unknown input falls back to fallback.
func Parse(value string, fallback Language) Language {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	if idx == 1 {
		return Thai
	}
	return English
}

func (l Language) Tag() language.Tag {
	if l == Thai {
		return language.Thai
	}
	return language.English
}

// Currency is the display currency used for a language.
func (l Language) Currency() currency.Unit {
	if l == Thai {
		return currency.MustParseISO("THB")
	}
	return currency.USD
}

// Fold returns the case-folded form of s for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(Fold(s), Fold(substr))
}

// EqualFold reports whether a and b are equal under case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

// DisplayPrice converts a catalog price (stored in USD) into the display
// currency of lang. Thai viewers see baht at thbRate.
func DisplayPrice(usd float64, lang Language, thbRate float64) Price {
	amount := usd
	symbol := "$"
	if lang == Thai {
		amount = usd * thbRate
		symbol = "฿"
	}
	p := message.NewPrinter(lang.Tag())
	return Price{
		Amount:    amount,
		Currency:  lang.Currency().String(),
		Formatted: symbol + p.Sprintf("%.2f", amount),
	}
}

// DayLabel renders the separator shown above the first message of a day.
func DayLabel(t, now time.Time, lang Language) string {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		if lang == Thai {
			return "วันนี้"
		}
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y1 == y3 && m1 == m3 && d1 == d3 {
		if lang == Thai {
			return "เมื่อวาน"
		}
		return "Yesterday"
	}
	if lang == Thai {
		// Thai dates use the Buddhist era.
		return fmt.Sprintf("%d/%d/%d", d1, int(m1), y1+543)
	}
	return fmt.Sprintf("%d/%d/%d", int(m1), d1, y1)
}
