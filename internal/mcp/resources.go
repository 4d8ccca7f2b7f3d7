package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) safetyGuidelines(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	guidelines := map[string]any{
		"max_hr_warning_bpm": h.cfg.MaxHRWarning,
		"hard_stop_bpm":      h.cfg.MaxHRWarning + h.cfg.HardStopMargin,
		"age_range":          fmt.Sprintf("%d-%d", h.cfg.MinAge, h.cfg.MaxAge),
		"guidance": []map[string]string{
			{"condition": "heart rate above warning threshold", "advice": "Reduce intensity immediately"},
			{"condition": "heart rate above hard-stop threshold", "advice": "Stop exercising and recover; recommendations are withheld"},
			{"condition": "age 65 or older", "advice": "Use an extended warm-up and cool-down"},
			{"condition": "diabetes", "advice": "Monitor blood glucose before and after exercise"},
			{"condition": "hypertension", "advice": "Avoid sustained isometric holds and breath-holding"},
			{"condition": "unspecified condition", "advice": "Consult a professional before high-intensity work"},
		},
	}

	data, err := json.Marshal(guidelines)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
