package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/bootstrap"
	"github.com/nerva-logistics/alertdispatch/internal/deliverylog"
)

type logOptions struct {
	Query   string
	Limit   int
	Timeout time.Duration
}

var errLogNotPersistent = errors.New(
	"delivery log backend is memory; set DELIVERY_LOG_BACKEND=redis to inspect the log from the CLI",
)

func runLog(cmdCtx *commandContext, args []string) error {
	opts, err := parseLogFlags(args)
	if err != nil {
		return err
	}
	if !cmdCtx.Config.DeliveryLog.UsesRedis() {
		return errLogNotPersistent
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Error("close redis failed", "error", cerr)
		}
	}()

	sink, err := deliverylog.NewRedis(deliverylog.RedisOptions{
		Client:   client,
		Key:      cmdCtx.Config.DeliveryLog.Key,
		Capacity: cmdCtx.Config.DeliveryLog.Capacity,
	})
	if err != nil {
		return err
	}

	reports, err := sink.List(ctx)
	if err != nil {
		return fmt.Errorf("list delivery log: %w", err)
	}

	if opts.Query != "" {
		result, qerr := deliverylog.Query(reports, opts.Query)
		if qerr != nil {
			return qerr
		}
		return printJSON(cmdCtx, result)
	}

	total, err := sink.Total(ctx)
	if err != nil {
		return fmt.Errorf("read delivery log total: %w", err)
	}
	if opts.Limit > 0 && len(reports) > opts.Limit {
		reports = reports[len(reports)-opts.Limit:]
	}
	if err := writef(cmdCtx.Out, "Alerts sent: %d (showing %d)\n\n", total, len(reports)); err != nil {
		return err
	}
	return printLog(cmdCtx.Out, reports)
}

func printJSON(cmdCtx *commandContext, v any) error {
	enc := json.NewEncoder(cmdCtx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseLogFlags(args []string) (logOptions, error) {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts logOptions
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression evaluated against the log")
	fs.IntVar(&opts.Limit, "limit", 20, "Show only the most recent N entries (0 for all)")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Maximum time to wait for Redis")

	if err := fs.Parse(args); err != nil {
		return logOptions{}, err
	}

	opts.Query = strings.TrimSpace(opts.Query)
	if opts.Query != "" {
		if err := deliverylog.ValidateQuery(opts.Query); err != nil {
			return logOptions{}, err
		}
	}
	if opts.Limit < 0 {
		return logOptions{}, errors.New("--limit must not be negative")
	}
	if opts.Timeout <= 0 {
		return logOptions{}, errors.New("--timeout must be positive")
	}
	return opts, nil
}
