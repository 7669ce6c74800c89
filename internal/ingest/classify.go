// Package ingest folds streaming assistant output and historical backend
// records into workspace state.
package ingest

import (
	"encoding/json"
	"strings"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

const errorPrefix = "Error:"

// Discriminator values recognized on parsed tool payloads.
const (
	discReport      = "report"
	discReportTable = "report_table"
	discGraph       = "graph"
	discCode        = "code"
	discError       = "error"
)

// Classify builds a tool-call result from a terminal tool event payload.
// Parse failure is not an error state: raw text with an "Error:" prefix is
// classified as an error result, anything else unparseable as plain text.
// The registry always accepts something.
func Classify(toolCallID, toolName, payload, messageID string) model.ToolCallResult {
	res := model.ToolCallResult{
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Payload:    payload,
		MessageID:  messageID,
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		if strings.HasPrefix(payload, errorPrefix) {
			res.Kind = model.ResultError
		} else {
			res.Kind = model.ResultText
		}
		return res
	}

	switch probe.Type {
	case discReport, discReportTable:
		res.Kind = model.ResultTable
	case discGraph:
		res.Kind = model.ResultGraph
	case discCode:
		res.Kind = model.ResultCode
	case discError:
		res.Kind = model.ResultError
	default:
		res.Kind = model.ResultText
	}
	return res
}
