package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jakechorley/consult-hub/pkg/core/model"
	"github.com/jakechorley/consult-hub/pkg/core/syncer"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func statusColor(status model.Status) string {
	switch status {
	case model.StatusCompleted:
		return colorGreen
	case model.StatusInProgress:
		return colorYellow
	default:
		return colorRed
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// proposedSlot renders the proposed day and time, or "-" when nothing was proposed
func proposedSlot(rec model.ConsultationRequest) string {
	if !rec.HasProposedSlot() {
		return "-"
	}
	return rec.ProposedDay + " " + rec.ProposedTime
}

func printRequestTable(w io.Writer, requests []model.ConsultationRequest) {
	if len(requests) == 0 {
		fmt.Fprintln(w, "No consultation requests.")
		return
	}

	fmt.Fprintf(w, "\n%-36s  %-10s  %-16s  %-10s  %-12s  %-14s  %s\n",
		"ID", "STATUS", "STUDENT", "SUBJECT", "INSTRUCTOR", "PROPOSED", "CREATED")
	for _, rec := range requests {
		delivered := ""
		if rec.IsDeliveryConfirmed {
			delivered = " ✓"
		}
		fmt.Fprintf(w, "%-36s  %s%-10s%s  %-16s  %-10s  %-12s  %-14s  %s\n",
			rec.ID,
			statusColor(rec.Status), rec.Status, colorReset,
			truncate(rec.StudentName+" ("+rec.StudentClass+")", 16),
			truncate(rec.Subject, 10),
			truncate(rec.AssignedInstructorName, 12),
			truncate(proposedSlot(rec)+delivered, 14),
			formatMillis(rec.CreatedAt),
		)
	}
	fmt.Fprintf(w, "\n%d request(s)\n", len(requests))
}

func printRequestDetail(w io.Writer, rec model.ConsultationRequest, now time.Time) {
	fmt.Fprintf(w, "\nRequest %s\n\n", rec.ID)
	fmt.Fprintf(w, "  Status:      %s%s (%s)%s\n", statusColor(rec.Status), rec.Status, rec.Status.Label(), colorReset)
	fmt.Fprintf(w, "  Student:     %s (%s)\n", rec.StudentName, rec.StudentClass)
	fmt.Fprintf(w, "  Subject:     %s\n", rec.Subject)
	fmt.Fprintf(w, "  Instructor:  %s\n", rec.AssignedInstructorName)
	fmt.Fprintf(w, "  Requested by %s on %s\n", rec.RequesterName, formatMillis(rec.CreatedAt))

	if rec.Reason != "" {
		fmt.Fprintf(w, "  Reason:      %s\n", rec.Reason)
	}
	if len(rec.AvailableTimeSlots) > 0 {
		fmt.Fprintf(w, "  Available:   %s\n", strings.Join(rec.AvailableTimeSlots, ", "))
	}

	if rec.HasProposedSlot() {
		line := proposedSlot(rec)
		if next, err := model.NextOccurrence(rec.ProposedDay, now); err == nil && !rec.Status.IsTerminal() {
			line += fmt.Sprintf(" (next: %s)", next.Format("Mon 2006-01-02"))
		}
		fmt.Fprintf(w, "  Proposed:    %s\n", line)
		if rec.IsDeliveryConfirmed {
			fmt.Fprintf(w, "  Delivery:    %sconfirmed by homeroom%s\n", colorGreen, colorReset)
		} else {
			fmt.Fprintf(w, "  Delivery:    %snot yet confirmed%s\n", colorDim, colorReset)
		}
	}

	if rec.InstructorNotes != "" {
		fmt.Fprintf(w, "\n  Notes:\n")
		for _, line := range strings.Split(rec.InstructorNotes, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	if rec.CompletedAt != nil {
		fmt.Fprintf(w, "\n  Completed:   %s\n", formatMillis(*rec.CompletedAt))
	}
	fmt.Fprintln(w)
}

// printSyncStatus prints a one-line sync state, highlighting a failed last refresh
func printSyncStatus(w io.Writer, status syncer.Status) {
	switch {
	case status.Err != nil:
		fmt.Fprintf(w, "%s⚠️  Remote store unavailable, showing last known data (%d requests)%s\n", colorYellow, status.Count, colorReset)
	case status.LastSync.IsZero():
		fmt.Fprintf(w, "%sNot yet synced (%d requests)%s\n", colorDim, status.Count, colorReset)
	default:
		fmt.Fprintf(w, "%sSynced at %s (%d requests)%s\n", colorDim, status.LastSync.Local().Format("15:04:05"), status.Count, colorReset)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
