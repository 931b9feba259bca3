package view

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quoteroom/quoteroom/web"
)

// Engine renders the print templates.
type Engine struct {
	templates *template.Template
}

var printer = message.NewPrinter(language.English)

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": formatDate,
		"money":      money,
		"qty":        func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"percent":    func(rate float64) string { return decimal.NewFromFloat(rate).Shift(2).String() + "%" },
		"inc":        func(i int) int { return i + 1 },
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/print/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Execute writes the named template to w.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}

func formatDate(v any) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return ""
		}
		t = *x
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// money formats with two decimals and thousands separators.
func money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	return printer.Sprintf("%.2f", d.InexactFloat64())
}
