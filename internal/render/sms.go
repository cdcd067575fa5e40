package render

import (
	"strings"
	"unicode/utf8"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// SMSLimit is the maximum number of characters in a rendered SMS.
const SMSLimit = 160

const (
	shortCauseLen  = 24
	shortClientLen = 16
	ellipsis       = "…"
)

type smsParts struct {
	client string
	value  string
	impact string
	cause  string
	eta    string
	phone  string
}

func (p smsParts) String() string {
	var b strings.Builder
	b.WriteString("🚨 ")
	b.WriteString(p.client)
	b.WriteString(":")
	if p.value != "" {
		b.WriteString(" " + p.value)
	}
	b.WriteString(" shipment")
	if p.impact != "" {
		b.WriteString(" " + p.impact)
	}
	b.WriteString(".")
	if p.cause != "" {
		b.WriteString(" " + p.cause + ".")
	}
	if p.eta != "" {
		b.WriteString(" New ETA: " + p.eta + ".")
	}
	if p.phone != "" {
		b.WriteString(" Call " + p.phone)
	}
	return b.String()
}

// SMS renders a single-line message of at most SMSLimit characters.
// Optional details are dropped or shortened until the message fits; as a last resort it is truncated.
func SMS(req model.AlertRequest, rc Context) string {
	p := smsParts{
		client: oneLine(req.Shipment.Client),
		value:  oneLine(req.Shipment.Value),
		impact: oneLine(req.Weather.Impact),
		cause:  oneLine(req.Weather.Cause),
		eta:    oneLine(req.Shipment.NewETA),
		phone:  oneLine(rc.ContactPhone),
	}

	steps := []func(*smsParts){
		func(p *smsParts) { p.phone = "" },
		func(p *smsParts) { p.eta = "" },
		func(p *smsParts) { p.cause = truncate(p.cause, shortCauseLen) },
		func(p *smsParts) { p.client = truncate(p.client, shortClientLen) },
	}

	msg := p.String()
	for _, step := range steps {
		if utf8.RuneCountInString(msg) <= SMSLimit {
			return msg
		}
		step(&p)
		msg = p.String()
	}
	return truncate(msg, SMSLimit)
}

// oneLine collapses all whitespace runs, including newlines, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := strings.TrimRight(string(runes[:n-1]), " .,:")
	return cut + ellipsis
}
