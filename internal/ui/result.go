package ui

import (
	"fmt"
	"strings"

	"github.com/keycontent/keycontent/internal/batch"
	"github.com/keycontent/keycontent/models"
)

// RenderResult formats one generation run for the terminal.
func RenderResult(keyword string, result models.GenerationResult) string {
	var sb strings.Builder

	if result.Success {
		sb.WriteString(StyleSuccess.Render("✓ " + keyword))
	} else {
		sb.WriteString(StyleError.Render("✗ " + keyword))
	}
	sb.WriteString("\n")
	sb.WriteString(StyleSubtle.Render(fmt.Sprintf("  item %s · %d fields · %d images",
		result.ItemID, result.FieldsUpdated, result.ImagesUpdated)))
	if !result.Success && result.Message != "" {
		sb.WriteString("\n")
		sb.WriteString(StyleWarning.Render("  " + result.Message))
	}
	return sb.String()
}

// RenderSummary formats a whole batch run.
func RenderSummary(summary batch.Summary) string {
	var sb strings.Builder
	sb.WriteString(StyleSectionTitle.Render("Batch complete"))
	sb.WriteString("\n")
	line := fmt.Sprintf("%d processed · %d succeeded · %d failed",
		summary.Processed, summary.Succeeded, summary.Failed)
	if summary.Canceled {
		line += " · stopped early"
	}
	sb.WriteString(StyleTitle.Render(line))

	for _, r := range summary.Results {
		if !r.Failed() {
			continue
		}
		msg := r.Result.Message
		if r.Err != nil {
			msg = r.Err.Error()
		}
		sb.WriteString("\n")
		sb.WriteString(StyleError.Render(fmt.Sprintf("  %s: %s", r.Keyword, msg)))
	}
	return sb.String()
}

// RenderDebugLog formats the event log of a run for verbose output.
func RenderDebugLog(log []models.DebugEntry) string {
	var sb strings.Builder
	for _, entry := range log {
		style := StyleSubtle
		if entry.IsError {
			style = StyleError
		}
		sb.WriteString(style.Render(fmt.Sprintf("[%s] %s",
			entry.Timestamp.Format("15:04:05"), entry.Step)))
		for k, v := range entry.Data {
			sb.WriteString(StyleSubtle.Render(fmt.Sprintf(" %s=%v", k, v)))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
