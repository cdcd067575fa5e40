package render

import (
	"strings"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// WhatsApp renders an emoji-annotated multi-line message.
func WhatsApp(req model.AlertRequest, rc Context) string {
	s, w := req.Shipment, req.Weather

	lines := []string{
		"🚨 *" + s.Client + " Weather Alert*",
		"",
		"📦 *Shipment:* " + s.AWB,
		"💰 *Value:* " + s.Value,
		"🛩️ *Route:* " + s.Route,
		"🌩️ *Weather:* " + w.Description,
		"🕐 *New ETA:* " + s.NewETA,
		"",
		"*Impact:* " + w.Impact,
	}

	var footer []string
	if rc.ContactPhone != "" {
		footer = append(footer, "📞 Contact: "+rc.ContactPhone)
	}
	if uri := rc.alertURL(); uri != "" {
		footer = append(footer, "🔗 Dashboard: "+uri)
	}
	if len(footer) > 0 {
		lines = append(lines, "")
		lines = append(lines, footer...)
	}

	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
