package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/history"
	"github.com/nguyentantai21042004/smartcut/internal/report"
)

// ExportReport renders a cut plan into a human-readable review
// document, markdown or docx. The format follows the output path's
// extension unless set explicitly.
func (p *implPipeline) ExportReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	if err := p.gate.RequireProjects(); err != nil {
		return nil, err
	}
	if req.Plan == nil {
		return nil, errdefs.Planning("cut plan data is required")
	}
	if req.OutputPath == "" {
		return nil, errdefs.Planning("output_path is required")
	}
	title := req.Title
	if title == "" {
		title = "Untitled"
	}

	format := strings.ToLower(req.Format)
	if format == "" {
		format = "markdown"
		if strings.EqualFold(filepath.Ext(req.OutputPath), ".docx") {
			format = "docx"
		}
	}
	switch format {
	case "markdown":
		if err := report.WriteMarkdown(title, req.Plan, req.OutputPath); err != nil {
			return nil, err
		}
	case "docx":
		if err := report.WriteDocx(title, req.Plan, req.OutputPath); err != nil {
			return nil, err
		}
	default:
		return nil, errdefs.Planning("format must be markdown or docx, got %q", req.Format)
	}

	p.logger.Info(ctx, "Wrote cut report: %s", req.OutputPath)
	return &ReportResult{
		ReportPath: req.OutputPath,
		Format:     format,
		Message:    fmt.Sprintf("Cut report written to %s.", req.OutputPath),
	}, nil
}

// EditHistory returns the most recent recorded edits, newest first.
func (p *implPipeline) EditHistory(ctx context.Context, limit int) ([]history.Entry, error) {
	entries, err := p.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read edit history: %w", err)
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return entries, nil
}
