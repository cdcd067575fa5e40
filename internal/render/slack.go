package render

import (
	"strings"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// Slack attachment colours by priority.
const (
	SlackColorHigh   = "#FF0000"
	SlackColorMedium = "#FFA500"
	SlackColorLow    = "#00AA00"
)

// SlackMessage is an incoming-webhook payload.
type SlackMessage struct {
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments"`
}

// SlackAttachment is a legacy message attachment.
type SlackAttachment struct {
	Fallback  string       `json:"fallback"`
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	TitleLink string       `json:"title_link,omitempty"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Ts        int64        `json:"ts"`
}

// SlackField is a title/value pair.
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeSlackText(s string) string {
	return slackEscaper.Replace(s)
}

func slackColor(p model.AlertPriority) string {
	switch p.OrDefault() {
	case model.AlertPriorityHigh:
		return SlackColorHigh
	case model.AlertPriorityLow:
		return SlackColorLow
	default:
		return SlackColorMedium
	}
}

// Slack renders an attachment-style message for a Slack incoming webhook.
func Slack(req model.AlertRequest, rc Context) SlackMessage {
	s, w := req.Shipment, req.Weather
	title := "🚨 " + escapeSlackText(s.Client) + " Weather Alert"

	return SlackMessage{
		Attachments: []SlackAttachment{{
			Fallback:  title,
			Color:     slackColor(req.Priority),
			Title:     title,
			TitleLink: rc.alertURL(),
			Text:      escapeSlackText(strings.TrimSpace(s.Value+" shipment experiencing weather impact")),
			Fields: []SlackField{
				{Title: "AWB", Value: escapeSlackText(s.AWB), Short: true},
				{Title: "Route", Value: escapeSlackText(s.Route), Short: true},
				{Title: "Weather Event", Value: escapeSlackText(w.Description), Short: false},
				{Title: "New ETA", Value: escapeSlackText(s.NewETA), Short: true},
				{Title: "Impact", Value: escapeSlackText(w.Impact), Short: true},
			},
			Footer: escapeSlackText(rc.brand()),
			Ts:     rc.Timestamp.Unix(),
		}},
	}
}
