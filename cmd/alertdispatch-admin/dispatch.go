package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/bootstrap"
	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

const defaultCommandTimeout = 2 * time.Minute

type checkOptions struct {
	Timeout time.Duration
}

type sendTestOptions struct {
	Timeout    time.Duration
	Channels   []model.Channel
	Recipients model.Recipients
	Priority   model.AlertPriority
}

func runCheck(cmdCtx *commandContext, args []string) error {
	opts, err := parseCheckFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	services, err := bootstrap.BuildServices(ctx, &cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer closeServices(cmdCtx, services)

	if err := services.Dispatcher.Initialize(ctx); err != nil {
		return fmt.Errorf("connectivity check: %w", err)
	}
	status, err := services.Dispatcher.Status(ctx)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	return printConnectivity(cmdCtx.Out, status)
}

func runSendTest(cmdCtx *commandContext, args []string) error {
	opts, err := parseSendTestFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	services, err := bootstrap.BuildServices(ctx, &cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer closeServices(cmdCtx, services)

	if err := services.Dispatcher.Initialize(ctx); err != nil {
		return fmt.Errorf("connectivity check: %w", err)
	}

	report, err := services.Dispatcher.Dispatch(ctx, sampleAlert(opts))
	if err != nil {
		return fmt.Errorf("dispatch test alert: %w", err)
	}
	if err := printReport(cmdCtx.Out, *report); err != nil {
		return err
	}

	if err := services.Dispatcher.Wait(ctx); err != nil {
		cmdCtx.Logger.Warn("escalations still running at exit", "error", err)
	}
	if !report.OverallSuccess {
		return errors.New("test alert failed on a critical channel")
	}
	return nil
}

func closeServices(cmdCtx *commandContext, services *bootstrap.ServiceContainer) {
	if err := services.Close(); err != nil {
		cmdCtx.Logger.Error("close services failed", "error", err)
	}
}

func parseCheckFlags(args []string) (checkOptions, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts checkOptions
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum time to wait for the check")

	if err := fs.Parse(args); err != nil {
		return checkOptions{}, err
	}
	if opts.Timeout <= 0 {
		return checkOptions{}, errors.New("--timeout must be positive")
	}
	return opts, nil
}

func parseSendTestFlags(args []string) (sendTestOptions, error) {
	fs := flag.NewFlagSet("send-test", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		opts     sendTestOptions
		channels string
		email    string
		phone    string
		teams    string
		slack    string
		whatsapp string
		priority string
	)
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum time to wait for delivery")
	fs.StringVar(&channels, "channels", "email,sms", "Comma-separated channels to address")
	fs.StringVar(&email, "email", "logistics@acme.example.com", "Email recipient")
	fs.StringVar(&phone, "phone", "+15555550100", "SMS recipient")
	fs.StringVar(&teams, "teams", "#freight-ops", "Teams recipient label")
	fs.StringVar(&slack, "slack", "#alerts", "Slack recipient label")
	fs.StringVar(&whatsapp, "whatsapp", "+15555550101", "WhatsApp recipient")
	fs.StringVar(&priority, "priority", string(model.AlertPriorityHigh), "Alert priority (high, medium, low)")

	if err := fs.Parse(args); err != nil {
		return sendTestOptions{}, err
	}
	if opts.Timeout <= 0 {
		return sendTestOptions{}, errors.New("--timeout must be positive")
	}

	parsed, err := model.ParseChannels(channels)
	if err != nil {
		return sendTestOptions{}, fmt.Errorf("--channels: %w", err)
	}
	if len(parsed) == 0 {
		return sendTestOptions{}, errors.New("--channels must name at least one channel")
	}
	opts.Channels = parsed

	addresses := map[model.Channel]string{
		model.ChannelEmail:    email,
		model.ChannelSMS:      phone,
		model.ChannelTeams:    teams,
		model.ChannelSlack:    slack,
		model.ChannelWhatsApp: whatsapp,
	}
	opts.Recipients = make(model.Recipients, len(parsed))
	for _, ch := range parsed {
		addr := strings.TrimSpace(addresses[ch])
		if addr == "" {
			return sendTestOptions{}, fmt.Errorf("--%s recipient is required when %s is selected", flagFor(ch), ch)
		}
		opts.Recipients[ch] = addr
	}

	opts.Priority = model.AlertPriority(strings.ToLower(strings.TrimSpace(priority)))
	if !opts.Priority.Valid() {
		return sendTestOptions{}, fmt.Errorf("--priority: invalid value %q (valid options: high, medium, low)", priority)
	}
	return opts, nil
}

func flagFor(ch model.Channel) string {
	if ch == model.ChannelSMS {
		return "phone"
	}
	return string(ch)
}

// sampleAlert is the reference weather-delay scenario for a high-value shipment through ORD.
func sampleAlert(opts sendTestOptions) model.AlertRequest {
	return model.AlertRequest{
		Shipment: model.Shipment{
			AWB:         "176-12345678",
			Client:      "Acme Corp",
			Description: "Semiconductor manufacturing equipment",
			Value:       "$100,000",
			Route:       "LAX-ORD-JFK",
			Priority:    "Critical",
			Custody:     "LAX Ground Handler -> AA Cargo -> ORD Transfer",
			NewETA:      "15:30 EST",
		},
		Weather: model.WeatherEvent{
			Description: "Severe thunderstorms with wind shear",
			Cause:       "Thunderstorms at ORD",
			Impact:      "delayed 4 hours",
		},
		Priority: opts.Priority,
		Alternatives: []model.Alternative{
			{Route: "LAX-DFW-JFK", Cost: "+$2,400", Description: "arrives 2 hours later"},
			{Route: "Hold at LAX", Cost: "$0", Description: "depart next morning"},
		},
		Recipients: opts.Recipients,
	}
}
