package ui

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders HUD and menu text with locale-aware number grouping.
type Formatter struct {
	p *message.Printer
}

// NewFormatter parses lang as a BCP 47 tag, falling back to English.
func NewFormatter(lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Formatter{p: message.NewPrinter(tag)}
}

func (f *Formatter) Lives(n int) string { return f.p.Sprintf("Lives  %d", n) }
func (f *Formatter) Stage(n int) string { return f.p.Sprintf("Stage  %d", n) }

func (f *Formatter) Score(v float32) string {
	return f.p.Sprintf("Score  %d", int(math.Round(float64(v))))
}

// Health draws a bar of width cells, filled up to v.
func (f *Formatter) Health(v, width int) string {
	v = max(0, min(width, v))
	return "Health [" + strings.Repeat("#", v) + strings.Repeat(".", width-v) + "]"
}

// Elapsed formats a run time in seconds with one decimal.
func (f *Formatter) Elapsed(seconds float64) string {
	return f.p.Sprintf("Time  %.1fs", seconds)
}
