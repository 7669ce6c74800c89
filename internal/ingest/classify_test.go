package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

func TestClassifyDiscriminators(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    model.ResultKind
	}{
		{"report maps to table", `{"type":"report","rows":[]}`, model.ResultTable},
		{"report_table maps to table", `{"type":"report_table"}`, model.ResultTable},
		{"graph", `{"type":"graph","series":[]}`, model.ResultGraph},
		{"code", `{"type":"code","source":"df.head()"}`, model.ResultCode},
		{"error", `{"type":"error","message":"boom"}`, model.ResultError},
		{"unknown type defaults to text", `{"type":"summary"}`, model.ResultText},
		{"missing type defaults to text", `{"rows":[]}`, model.ResultText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify("tc-1", "report_tool", tt.payload, "msg-1")
			assert.Equal(t, tt.want, res.Kind)
			assert.Equal(t, tt.payload, res.Payload, "raw payload always kept")
		})
	}
}

func TestClassifyUnparseableErrorPrefix(t *testing.T) {
	res := Classify("tc-1", "fetch", "Error: disk full", "msg-1")
	assert.Equal(t, model.ResultError, res.Kind)
	assert.Equal(t, "Error: disk full", res.Payload)
}

func TestClassifyUnparseablePlainText(t *testing.T) {
	res := Classify("tc-1", "fetch", "just some text", "msg-1")
	assert.Equal(t, model.ResultText, res.Kind)
}

func TestClassifyCarriesIdentity(t *testing.T) {
	res := Classify("tc-9", "graph_tool", `{"type":"graph"}`, "msg-4")
	assert.Equal(t, "tc-9", res.ToolCallID)
	assert.Equal(t, "graph_tool", res.ToolName)
	assert.Equal(t, "msg-4", res.MessageID)
}
