package server

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

// transcriptArg decodes an optional transcription_data object. A missing
// or null argument returns nil without error; the pipeline decides
// whether the transcript is required for the operation.
func transcriptArg(req mcp.CallToolRequest, key string) (*transcript.Transcript, error) {
	var tr transcript.Transcript
	ok, err := decodeObject(req, key, &tr)
	if err != nil || !ok {
		return nil, err
	}
	return &tr, nil
}

func planArg(req mcp.CallToolRequest, key string) (*cutplan.Plan, error) {
	var plan cutplan.Plan
	ok, err := decodeObject(req, key, &plan)
	if err != nil || !ok {
		return nil, err
	}
	return &plan, nil
}

func decodeObject(req mcp.CallToolRequest, key string, out any) (bool, error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return false, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return false, errdefs.Format("invalid %s: %v", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errdefs.Format("invalid %s: %v", key, err)
	}
	return true, nil
}

// resultJSON renders a tool result as indented JSON text content.
// HTML escaping is disabled so non-ASCII transcripts come back as
// readable text instead of escape sequences.
func resultJSON(v any) *mcp.CallToolResult {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return mcp.NewToolResultError("Error: encode result: " + err.Error())
	}
	return mcp.NewToolResultText(strings.TrimSuffix(buf.String(), "\n"))
}

// toolError reports a failed operation to the client as a tool-level
// error. The transport-level error stays nil so the session survives.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}
