package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// configProperties are the four optional detection overrides shared by
// every tool that accepts a configuration. Fields are fractions in [0, 1];
// omitted fields fall back to the server defaults.
func configProperties() map[string]interface{} {
	return map[string]interface{}{
		"min_area_percentage": map[string]interface{}{
			"type":        "number",
			"description": "Minimum fraction of sampled pixels a color must cover to qualify (0-1). Default 0.25",
		},
		"min_saturation": map[string]interface{}{
			"type":        "number",
			"description": "Minimum saturation for a chromakey candidate (0-1). Default 0.6",
		},
		"edge_sample_percentage": map[string]interface{}{
			"type":        "number",
			"description": "Width of the border ring sampled by edge analysis, as a fraction of each dimension (0-1). Default 0.15",
		},
		"confidence_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Confidence at which full-frame analysis short-circuits the remaining strategies (0-1). Default 0.7",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "chroma_image_info",
			Description: "Load an image file and return its dimensions, format, and file size. Also warms the decode cache for subsequent detection calls against the same file.",
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

		// Single-Image Detection
		{
			Name:        "chroma_detect_file",
			Description: "Detect the dominant chromakey (green screen / blue screen) color in an image file. Returns the detected color, confidence, coverage, hue, and the strategy that produced it, or detected:false when no candidate qualifies.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"max_dimension": map[string]interface{}{
						"type":        "integer",
						"description": "Optional maximum width/height; larger images are downscaled before analysis. 0 disables scaling. Default 0",
						"default":     0,
					},
				}, configProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "chroma_detect_region",
			Description: "Detect the dominant chromakey color inside a rectangular region of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
				}, configProperties()),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "chroma_sample_hsv",
			Description: "Sample a single pixel and return its RGB value, HSV conversion, hex string, and whether it qualifies as a chromakey candidate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Video Sessions
		{
			Name:        "chroma_session_start",
			Description: "Start a video analysis session. Frames are analyzed individually as they are added; a consensus over all frames is available at any point. Returns the session id.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": configProperties(),
			},
		},
		{
			Name:        "chroma_session_add_frame",
			Description: "Analyze one video frame (an image file) and record its result in the session. Frames with no detectable chromakey are skipped, not errors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session id returned by chroma_session_start",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame image file",
					},
				},
				"required": []string{"session_id", "path"},
			},
		},
		{
			Name:        "chroma_session_consensus",
			Description: "Compute the consensus chromakey color over all frames recorded in the session so far. Confidence is discounted by the fraction of frames that agree.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session id returned by chroma_session_start",
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "chroma_session_config",
			Description: "Update the detection configuration of an existing session. Only the provided fields change; an invalid value rejects the whole update. Already-recorded frame results are unaffected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session id returned by chroma_session_start",
					},
				}, configProperties()),
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "chroma_session_end",
			Description: "End a video analysis session and discard its recorded frame results.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session id returned by chroma_session_start",
					},
				},
				"required": []string{"session_id"},
			},
		},
	}
}

// mergeProperties combines tool-specific properties with the shared
// configuration overrides into one schema properties map.
func mergeProperties(own, shared map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(own)+len(shared))
	for k, v := range shared {
		merged[k] = v
	}
	for k, v := range own {
		merged[k] = v
	}
	return merged
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
