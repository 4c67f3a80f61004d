package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nguyentantai21042004/smartcut/internal/capability"
	"github.com/nguyentantai21042004/smartcut/internal/logger"
	"github.com/nguyentantai21042004/smartcut/internal/pipeline"
)

const (
	serverName    = "smartcut"
	serverVersion = "1.0.0"
)

type implServer struct {
	gate     capability.Target
	pipeline pipeline.Pipeline
	logger   logger.Logger

	mcp   *mcpserver.MCPServer
	tools []mcp.Tool
}

func New(gate capability.Target, p pipeline.Pipeline, log logger.Logger) Server {
	s := &implServer{
		gate:     gate,
		pipeline: p,
		logger:   log,
		mcp: mcpserver.NewMCPServer(serverName, serverVersion,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
		),
	}
	s.register()
	return s
}

// register wires tools in the order clients see them: smart_cut first
// when any mutation is allowed, then the always-on read-only tools,
// then the gated groups.
func (s *implServer) register() {
	if !s.gate.ReadOnly() {
		s.add(smartCutTool(), s.handleSmartCut)
	}

	s.add(transcribeTool(), s.handleTranscribe)
	s.add(analyzeContentTool(), s.handleAnalyzeContent)
	s.add(generateSubtitlesTool(), s.handleGenerateSubtitles)
	s.add(listEditHistoryTool(), s.handleListEditHistory)

	if s.gate.CanModifyProjects() {
		s.add(generateProjectTool(), s.handleGenerateProject)
		s.add(listProjectsTool(), s.handleListProjects)
		s.add(openProjectTool(), s.handleOpenProject)
		s.add(addSubtitlesTool(), s.handleAddSubtitles)
		s.add(smartCutProjectTool(), s.handleSmartCutProject)
		s.add(exportReportTool(), s.handleExportReport)
	}

	if s.gate.CanModifySource() {
		s.add(exportVideoTool(), s.handleExportVideo)
		s.add(enhanceAudioTool(), s.handleEnhanceAudio)
		s.add(normalizeAudioTool(), s.handleNormalizeAudio)
	}
}

func (s *implServer) add(tool mcp.Tool, handler mcpserver.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
	s.tools = append(s.tools, tool)
}

func (s *implServer) Tools() []mcp.Tool {
	return s.tools
}
