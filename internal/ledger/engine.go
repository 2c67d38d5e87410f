package ledger

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/tutorbook/internal/store"
)

// Options configures an Engine.
type Options struct {
	// Currency is appended to amounts in generated text, e.g. "VND".
	Currency string

	// Locale selects digit grouping in generated text. Defaults to English.
	Locale language.Tag

	Logger *slog.Logger
}

// Engine runs ledger operations against a Store.
type Engine struct {
	store    *store.Store
	printer  *message.Printer
	currency string
	logger   *slog.Logger
}

// New returns an Engine over s.
func New(s *store.Store, opts Options) *Engine {
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}
	logger := opts.Logger
	if logger == nil {
		logger = s.Logger()
	}
	return &Engine{
		store:    s,
		printer:  message.NewPrinter(locale),
		currency: strings.TrimSpace(opts.Currency),
		logger:   logger,
	}
}

// FormatAmount renders d with locale digit grouping and the currency suffix.
func (e *Engine) FormatAmount(d decimal.Decimal) string {
	var s string
	if d.IsInteger() {
		s = e.printer.Sprintf("%d", d.IntPart())
	} else {
		s = e.printer.Sprintf("%.2f", d.InexactFloat64())
	}
	if e.currency == "" {
		return s
	}
	return s + " " + e.currency
}
