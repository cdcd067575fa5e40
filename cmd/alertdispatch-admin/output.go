package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/util"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printConnectivity(w io.Writer, status model.Status) error {
	if err := writef(w, "Mode: %s\n\n", status.Mode); err != nil {
		return err
	}

	tw := newTable(w)
	if err := writeln(tw, "Channel\tConnectivity"); err != nil {
		return fmt.Errorf("write connectivity header: %w", err)
	}
	for _, ch := range model.Channels {
		conn, ok := status.Connectivity[ch]
		if !ok {
			continue
		}
		if err := writef(tw, "%s\t%s\n", ch, conn); err != nil {
			return fmt.Errorf("write connectivity row %s: %w", ch, err)
		}
	}
	return tw.Flush()
}

func printReport(w io.Writer, report model.DeliveryReport) error {
	if err := writef(w, "Alert %s (%s, %s)\n", report.AlertID, report.Shipment.Client, report.Shipment.AWB); err != nil {
		return err
	}
	if err := writef(w, "Overall: %s in %s\n\n", outcomeLabel(report.OverallSuccess), util.FormatElapsed(report.DeliveryTime)); err != nil {
		return err
	}

	tw := newTable(w)
	if err := writeln(tw, "Channel\tResult\tElapsed\tRecipient\tMessage ID / Error"); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, ch := range model.Channels {
		out, ok := report.Channels[ch]
		if !ok {
			continue
		}
		detail := out.MessageID
		if !out.Success {
			detail = out.Error
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			ch, outcomeLabel(out.Success), util.FormatElapsed(out.Elapsed), out.Recipient, detail); err != nil {
			return fmt.Errorf("write report row %s: %w", ch, err)
		}
	}
	return tw.Flush()
}

func printLog(w io.Writer, reports []model.DeliveryReport) error {
	if len(reports) == 0 {
		return writeln(w, "No alerts recorded.")
	}

	tw := newTable(w)
	if err := writeln(tw, "Alert ID\tSent At\tAWB\tClient\tResult\tFailed Channels"); err != nil {
		return fmt.Errorf("write log header: %w", err)
	}
	for _, rep := range reports {
		failed := "-"
		if chs := rep.FailedChannels(); len(chs) > 0 {
			failed = joinChannels(chs)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rep.AlertID,
			rep.Timestamp.UTC().Format(time.RFC3339),
			rep.Shipment.AWB,
			rep.Shipment.Client,
			outcomeLabel(rep.OverallSuccess),
			failed,
		); err != nil {
			return fmt.Errorf("write log row %s: %w", rep.AlertID, err)
		}
	}
	return tw.Flush()
}

func outcomeLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED"
}

func joinChannels(chs []model.Channel) string {
	out := ""
	for i, ch := range chs {
		if i > 0 {
			out += ","
		}
		out += string(ch)
	}
	return out
}
