package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

var emailHTML = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.header { background: #1e40af; color: white; padding: 20px; }
.content { padding: 20px; }
.alert-box { background: #fef3c7; border-left: 4px solid #f59e0b; padding: 15px; margin: 20px 0; }
.status-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
.status-table th, .status-table td { border: 1px solid #ddd; padding: 12px; text-align: left; }
.status-table th { background: #f8f9fa; }
.footer { background: #f8f9fa; padding: 15px; font-size: 12px; color: #666; }
</style>
</head>
<body>
<div class="header">
<h1>{{.Brand}}</h1>
<p>Executive Weather Alert</p>
</div>
<div class="content">
<h2>{{.Shipment.Client}}{{with .Shipment.Description}} - {{.}}{{end}}</h2>
<div class="alert-box">
<strong>Weather Event:</strong> {{.Weather.Description}}<br>
<strong>Impact:</strong> {{.Weather.Impact}}<br>
<strong>New ETA:</strong> {{.Shipment.NewETA}}
</div>
<table class="status-table">
<tr><th>AWB Number</th><td>{{.Shipment.AWB}}</td></tr>
<tr><th>Shipment Value</th><td>{{.Shipment.Value}}</td></tr>
<tr><th>Route</th><td>{{.Shipment.Route}}</td></tr>
<tr><th>Priority</th><td>{{.Shipment.Priority}}</td></tr>
<tr><th>Weather Cause</th><td>{{.Weather.Cause}}</td></tr>
<tr><th>Chain of Custody</th><td>{{.Shipment.Custody}}</td></tr>
</table>
{{- if .Alternatives}}
<h3>Alternative Options:</h3>
<ul>
{{- range .Alternatives}}
<li><strong>{{.Route}}:</strong> {{.Cost}}, {{.Description}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .ContactPhone}}
<p>Contact: {{.ContactPhone}}</p>
{{- end}}
{{- if .AlertURL}}
<p><a href="{{.AlertURL}}">View full details</a></p>
{{- end}}
</div>
<div class="footer">
This alert was generated automatically by {{.Brand}}.<br>
Alert ID: {{.AlertID}} | Timestamp: {{.Timestamp}}
</div>
</body>
</html>
`))

type emailView struct {
	model.AlertRequest
	Brand        string
	AlertID      string
	Timestamp    string
	ContactPhone string
	AlertURL     string
}

// EmailSubject returns the subject line, escalated for high priority alerts.
func EmailSubject(req model.AlertRequest) string {
	client := req.Shipment.Client
	if req.Priority.OrDefault() == model.AlertPriorityHigh {
		if v := strings.TrimSpace(req.Shipment.Value); v != "" {
			return fmt.Sprintf("🚨 URGENT: %s - %s Shipment Weather Alert", client, v)
		}
		return fmt.Sprintf("🚨 URGENT: %s Shipment Weather Alert", client)
	}
	return fmt.Sprintf("📦 Weather Update: %s Shipment Status", client)
}

// Email renders the subject, HTML body and plain-text alternative.
func Email(req model.AlertRequest, rc Context) (Message, error) {
	view := emailView{
		AlertRequest: req,
		Brand:        rc.brand(),
		AlertID:      rc.AlertID,
		Timestamp:    rc.timestamp(),
		ContactPhone: rc.ContactPhone,
		AlertURL:     rc.alertURL(),
	}

	var buf bytes.Buffer
	if err := emailHTML.Execute(&buf, view); err != nil {
		return Message{}, fmt.Errorf("render email html: %w", err)
	}

	return Message{
		Channel: model.ChannelEmail,
		Subject: EmailSubject(req),
		HTML:    buf.String(),
		Text:    emailText(view),
	}, nil
}

func emailText(v emailView) string {
	var b strings.Builder
	line := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	fmt.Fprintf(&b, "%s - Executive Weather Alert\n\n", v.Brand)
	b.WriteString(v.Shipment.Client)
	if v.Shipment.Description != "" {
		b.WriteString(" - " + v.Shipment.Description)
	}
	b.WriteString("\n\n")

	line("Weather Event", v.Weather.Description)
	line("Impact", v.Weather.Impact)
	line("New ETA", v.Shipment.NewETA)
	b.WriteString("\n")
	line("AWB Number", v.Shipment.AWB)
	line("Shipment Value", v.Shipment.Value)
	line("Route", v.Shipment.Route)
	line("Priority", v.Shipment.Priority)
	line("Weather Cause", v.Weather.Cause)
	line("Chain of Custody", v.Shipment.Custody)

	if len(v.Alternatives) > 0 {
		b.WriteString("\nAlternative Options:\n")
		for _, alt := range v.Alternatives {
			fmt.Fprintf(&b, "- %s: %s, %s\n", alt.Route, alt.Cost, alt.Description)
		}
	}
	if v.ContactPhone != "" {
		fmt.Fprintf(&b, "\nContact: %s\n", v.ContactPhone)
	}
	if v.AlertURL != "" {
		fmt.Fprintf(&b, "Details: %s\n", v.AlertURL)
	}

	fmt.Fprintf(&b, "\nAlert ID: %s | Timestamp: %s\n", v.AlertID, v.Timestamp)
	return b.String()
}
