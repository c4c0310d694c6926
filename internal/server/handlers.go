package server

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ironsheep/image-optimizer-mcp/internal/imaging"
	"github.com/ironsheep/image-optimizer-mcp/internal/optimize"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_optimize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_optimize":
		return s.handleImageOptimize(args)
	case "image_optimize_data_uri":
		return s.handleImageOptimizeDataURI(args)
	case "image_inspect":
		return s.handleImageInspect(args)
	case "image_estimate_bytes":
		return s.handleImageEstimateBytes(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Optimization Handlers ===

// optimizeArgs carries the shared option fields of the optimization tools.
type optimizeArgs struct {
	Path         string  `json:"path"`
	DataURI      string  `json:"data_uri"`
	MaxDimension int     `json:"max_dimension"`
	MaxBytes     int     `json:"max_bytes"`
	OutputFormat string  `json:"output_format"`
	Quality      float64 `json:"quality"`
	Sharpen      bool    `json:"sharpen"`
}

// options converts the wire arguments into core Options. Unset fields stay
// zero and fall back to core defaults independently.
func (a *optimizeArgs) options() (optimize.Options, error) {
	format, err := parseFormat(a.OutputFormat)
	if err != nil {
		return optimize.Options{}, err
	}
	return optimize.Options{
		MaxDimension: a.MaxDimension,
		MaxBytes:     a.MaxBytes,
		Format:       format,
		Quality:      a.Quality,
		Sharpen:      a.Sharpen,
	}, nil
}

// parseFormat maps the wire format name onto the core enum. Empty selects
// the default output format.
func parseFormat(name string) (optimize.Format, error) {
	switch name {
	case "", "jpeg":
		return optimize.JPEG, nil
	case "webp":
		return optimize.WebP, nil
	default:
		return optimize.JPEG, fmt.Errorf("unknown output format: %s", name)
	}
}

// optimizeResponse is the wire form of an optimization result. The image
// itself travels as a self-describing data URI.
type optimizeResponse struct {
	DataURI       string `json:"data_uri"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	MimeType      string `json:"mime_type"`
	OriginalBytes int    `json:"original_bytes"`
	OutputBytes   int    `json:"output_bytes"`
	Optimized     bool   `json:"optimized"`
}

func toResponse(res *optimize.Result) *optimizeResponse {
	return &optimizeResponse{
		DataURI:       res.DataURI(),
		Width:         res.Width,
		Height:        res.Height,
		MimeType:      res.MIME,
		OriginalBytes: res.OriginalBytes,
		OutputBytes:   res.OutputBytes,
		Optimized:     res.Optimized,
	}
}

func (s *Server) handleImageOptimize(args json.RawMessage) (interface{}, error) {
	var a optimizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	res, err := optimize.OptimizeFile(a.Path, opts)
	if err != nil {
		return nil, err
	}
	return toResponse(res), nil
}

func (s *Server) handleImageOptimizeDataURI(args json.RawMessage) (interface{}, error) {
	var a optimizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	res, err := optimize.OptimizeDataURI(a.DataURI, opts)
	if err != nil {
		return nil, err
	}
	return toResponse(res), nil
}

// === Inspection Handlers ===

type imageInspectArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInspect(args json.RawMessage) (interface{}, error) {
	var a imageInspectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return imaging.Inspect(data)
}

type imageEstimateBytesArgs struct {
	DataURI string `json:"data_uri"`
}

// estimateBytesResponse reports the estimated payload size of a data URI.
type estimateBytesResponse struct {
	EstimatedBytes int `json:"estimated_bytes"`
}

func (s *Server) handleImageEstimateBytes(args json.RawMessage) (interface{}, error) {
	var a imageEstimateBytesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	n, ok := optimize.EstimateDataURIBytes(a.DataURI)
	if !ok {
		return nil, fmt.Errorf("input does not contain a base64 data URI marker")
	}
	return &estimateBytesResponse{EstimatedBytes: n}, nil
}
