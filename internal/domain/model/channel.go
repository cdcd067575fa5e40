//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"fmt"
	"strings"
)

// Channel identifies one delivery medium.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelTeams    Channel = "teams"
	ChannelSlack    Channel = "slack"
	ChannelWhatsApp Channel = "whatsapp"
)

// Channels lists every recognised channel in dispatch order.
var Channels = []Channel{
	ChannelEmail,
	ChannelSMS,
	ChannelTeams,
	ChannelSlack,
	ChannelWhatsApp,
}

// Valid returns true if the channel is one of the recognised channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelTeams, ChannelSlack, ChannelWhatsApp:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel.
func (c Channel) String() string {
	return string(c)
}

// ChannelSet is an unordered set of channels.
type ChannelSet map[Channel]struct{}

// NewChannelSet builds a set from the given channels.
func NewChannelSet(channels ...Channel) ChannelSet {
	set := make(ChannelSet, len(channels))
	for _, ch := range channels {
		set[ch] = struct{}{}
	}
	return set
}

// Contains reports whether ch is in the set.
func (s ChannelSet) Contains(ch Channel) bool {
	_, ok := s[ch]
	return ok
}

// Sorted returns the members in dispatch order.
func (s ChannelSet) Sorted() []Channel {
	out := make([]Channel, 0, len(s))
	for _, ch := range Channels {
		if s.Contains(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// ParseChannels parses a comma-delimited list of channel names.
// Blank entries are skipped; unknown names are rejected.
func ParseChannels(raw string) ([]Channel, error) {
	parts := strings.Split(raw, ",")
	seen := make(ChannelSet, len(parts))
	out := make([]Channel, 0, len(parts))
	for _, part := range parts {
		name := Channel(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !name.Valid() {
			return nil, fmt.Errorf(
				"invalid channel name: %q (valid options: email, sms, teams, slack, whatsapp)",
				string(name),
			)
		}
		if seen.Contains(name) {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// Connectivity is the last known reachability classification of a channel transport.
type Connectivity string

const (
	ConnectivityConnected     Connectivity = "connected"
	ConnectivitySimulated     Connectivity = "simulated"
	ConnectivityNotConfigured Connectivity = "not_configured"
	ConnectivityUnimplemented Connectivity = "unimplemented"
	ConnectivityUnreachable   Connectivity = "unreachable"
	ConnectivityPending       Connectivity = "pending"
)

// Usable reports whether a channel in this state is expected to deliver.
func (c Connectivity) Usable() bool {
	return c == ConnectivityConnected || c == ConnectivitySimulated
}

// Mode selects between simulated and live transports.
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// Valid returns true if the mode is recognised.
func (m Mode) Valid() bool {
	return m == ModeDemo || m == ModeLive
}
