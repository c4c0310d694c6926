package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// optimizeOptionProperties is the shared option schema for the two
// optimization tools. Every option is optional; unset fields fall back to
// their defaults independently.
func optimizeOptionProperties() map[string]interface{} {
	return map[string]interface{}{
		"max_dimension": map[string]interface{}{
			"type":        "integer",
			"description": "Longest-edge cap in pixels. Default 2048",
			"default":     2048,
		},
		"max_bytes": map[string]interface{}{
			"type":        "integer",
			"description": "Encoded-size cap in bytes (best-effort). Default 6291456 (6 MiB)",
			"default":     6291456,
		},
		"output_format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"jpeg", "webp"},
			"description": "Output encoding. Default jpeg",
			"default":     "jpeg",
		},
		"quality": map[string]interface{}{
			"type":        "number",
			"description": "Initial encoder quality in (0,1], clamped to [0.30,0.95]. Default 0.85",
			"default":     0.85,
		},
		"sharpen": map[string]interface{}{
			"type":        "boolean",
			"description": "Apply a mild unsharp mask after downscaling. Default false",
			"default":     false,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	optimizeFileProps := optimizeOptionProperties()
	optimizeFileProps["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}

	optimizeURIProps := optimizeOptionProperties()
	optimizeURIProps["data_uri"] = map[string]interface{}{
		"type":        "string",
		"description": "Self-describing base64 data URI (data:<mime>;base64,<payload>)",
	}

	return []Tool{
		{
			Name:        "image_optimize",
			Description: "Optimize an image file to fit a maximum pixel dimension and byte budget, preserving as much visual quality as possible. Returns the optimized image as a base64 data URI plus size metadata. Inputs already within both limits are passed through unchanged.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": optimizeFileProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_optimize_data_uri",
			Description: "Optimize an image supplied as a base64 data URI. Same behavior and options as image_optimize.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": optimizeURIProps,
				"required":   []string{"data_uri"},
			},
		},
		{
			Name:        "image_inspect",
			Description: "Report metadata about an image file without modifying it: dimensions, format, MIME type, alpha/opacity, encoded size, and average color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_estimate_bytes",
			Description: "Estimate the decoded byte size of a base64 data URI without decoding it. Exact for valid base64 payloads.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data_uri": map[string]interface{}{
						"type":        "string",
						"description": "Base64 data URI to measure",
					},
				},
				"required": []string{"data_uri"},
			},
		},
	}
}
