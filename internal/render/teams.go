package render

import (
	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// Teams theme colours.
const (
	TeamsColorHigh    = "FF0000"
	TeamsColorDefault = "FFA500"
)

// TeamsCard is an Office 365 connector MessageCard.
type TeamsCard struct {
	Type            string         `json:"@type"`
	Context         string         `json:"@context"`
	ThemeColor      string         `json:"themeColor"`
	Summary         string         `json:"summary"`
	Sections        []TeamsSection `json:"sections"`
	PotentialAction []TeamsAction  `json:"potentialAction,omitempty"`
}

// TeamsSection is one activity section of a card.
type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle"`
	ActivitySubtitle string      `json:"activitySubtitle"`
	Facts            []TeamsFact `json:"facts"`
}

// TeamsFact is a name/value row.
type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TeamsAction is an OpenUri action button.
type TeamsAction struct {
	Type    string        `json:"@type"`
	Name    string        `json:"name"`
	Targets []TeamsTarget `json:"targets"`
}

// TeamsTarget is a per-OS link target.
type TeamsTarget struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

// Teams renders a MessageCard for a Teams incoming webhook.
func Teams(req model.AlertRequest, rc Context) TeamsCard {
	color := TeamsColorDefault
	if req.Priority.OrDefault() == model.AlertPriorityHigh {
		color = TeamsColorHigh
	}

	card := TeamsCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: color,
		Summary:    "Weather Alert: " + req.Shipment.Client,
		Sections: []TeamsSection{{
			ActivityTitle:    "🚨 " + req.Shipment.Client + " Weather Alert",
			ActivitySubtitle: req.Shipment.Value + " Shipment Impact",
			Facts: []TeamsFact{
				{Name: "AWB:", Value: req.Shipment.AWB},
				{Name: "Route:", Value: req.Shipment.Route},
				{Name: "Weather:", Value: req.Weather.Description},
				{Name: "New ETA:", Value: req.Shipment.NewETA},
			},
		}},
	}

	if uri := rc.alertURL(); uri != "" {
		card.PotentialAction = []TeamsAction{{
			Type:    "OpenUri",
			Name:    "View Full Details",
			Targets: []TeamsTarget{{OS: "default", URI: uri}},
		}}
	}
	return card
}
