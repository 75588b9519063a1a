package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/chromatools/chromakey-mcp/internal/chroma"
	"github.com/chromatools/chromakey-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "chroma_detect_file").
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
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool call failed")
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configuration overrides on top of the server defaults
//  3. Loads images from cache as needed
//  4. Calls into the chroma/imaging packages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	s.log.Debug().Str("tool", name).Msg("executing tool")

	switch name {
	// Basic Image Information
	case "chroma_image_info":
		return s.handleImageInfo(args)

	// Single-Image Detection
	case "chroma_detect_file":
		return s.handleDetectFile(args)
	case "chroma_detect_region":
		return s.handleDetectRegion(args)
	case "chroma_sample_hsv":
		return s.handleSampleHSV(args)

	// Video Sessions
	case "chroma_session_start":
		return s.handleSessionStart(args)
	case "chroma_session_add_frame":
		return s.handleSessionAddFrame(args)
	case "chroma_session_consensus":
		return s.handleSessionConsensus(args)
	case "chroma_session_config":
		return s.handleSessionConfig(args)
	case "chroma_session_end":
		return s.handleSessionEnd(args)

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

// configArgs carries optional per-call detection overrides. Pointer fields
// distinguish "absent" from an explicit zero.
type configArgs struct {
	MinAreaPercentage    *float64 `json:"min_area_percentage"`
	MinSaturation        *float64 `json:"min_saturation"`
	EdgeSamplePercentage *float64 `json:"edge_sample_percentage"`
	ConfidenceThreshold  *float64 `json:"confidence_threshold"`
}

// apply returns base with every provided override applied. Any provided
// value outside [0, 1] fails the whole call; base is never mutated.
func (c *configArgs) apply(base chroma.DetectionConfig) (chroma.DetectionConfig, error) {
	fields := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"min_area_percentage", c.MinAreaPercentage, &base.MinAreaPercentage},
		{"min_saturation", c.MinSaturation, &base.MinSaturation},
		{"edge_sample_percentage", c.EdgeSamplePercentage, &base.EdgeSamplePercentage},
		{"confidence_threshold", c.ConfidenceThreshold, &base.ConfidenceThreshold},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if *f.src < 0 || *f.src > 1 {
			return base, fmt.Errorf("%s must be in [0, 1], got %v", f.name, *f.src)
		}
		*f.dst = *f.src
	}
	return base, nil
}

// detectionResponse renders a detection outcome as the common tool result
// shape. "No chromakey detected" is a normal result, not an error.
func detectionResponse(result chroma.ChromakeyResult, ok bool) map[string]interface{} {
	if !ok {
		return map[string]interface{}{
			"detected": false,
		}
	}
	return map[string]interface{}{
		"detected":   true,
		"color":      result.Color,
		"hex":        result.Color.Hex(),
		"confidence": result.Confidence,
		"coverage":   result.Coverage,
		"hue":        result.Hue,
		"method":     result.Method,
	}
}

// === Basic Image Information Handlers ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadFrameInfo(s.cache, a.Path)
}

// === Single-Image Detection Handlers ===

type detectFileArgs struct {
	Path         string `json:"path"`
	MaxDimension int    `json:"max_dimension"`
	configArgs
}

func (s *Server) handleDetectFile(args json.RawMessage) (interface{}, error) {
	var a detectFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg, err := a.apply(s.defaults)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.MaxDimension > 0 {
		img = imaging.FitWithin(img, a.MaxDimension)
	}

	frame := imaging.ToFrame(img)
	result, ok := chroma.Detect(frame.Pixels, frame.Width, frame.Height, cfg)
	return detectionResponse(result, ok), nil
}

type detectRegionArgs struct {
	Path string `json:"path"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
	configArgs
}

func (s *Server) handleDetectRegion(args json.RawMessage) (interface{}, error) {
	var a detectRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg, err := a.apply(s.defaults)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	frame, err := imaging.CropFrame(img, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2})
	if err != nil {
		return nil, err
	}

	result, ok := chroma.Detect(frame.Pixels, frame.Width, frame.Height, cfg)
	return detectionResponse(result, ok), nil
}

type sampleHSVArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSampleHSV(args json.RawMessage) (interface{}, error) {
	var a sampleHSVArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	frame := imaging.ToFrame(img)
	if a.X < 0 || a.Y < 0 || a.X >= frame.Width || a.Y >= frame.Height {
		return nil, fmt.Errorf("coordinate (%d, %d) outside image bounds %dx%d",
			a.X, a.Y, frame.Width, frame.Height)
	}

	idx := (a.Y*frame.Width + a.X) * 4
	rgb := chroma.RGB{R: frame.Pixels[idx], G: frame.Pixels[idx+1], B: frame.Pixels[idx+2]}
	hsv := rgb.ToHSV()

	return map[string]interface{}{
		"color":     rgb,
		"hex":       rgb.Hex(),
		"hsv":       map[string]float64{"h": hsv.H, "s": hsv.S, "v": hsv.V},
		"candidate": hsv.IsChromakeyCandidate(),
	}, nil
}

// === Video Session Handlers ===

func (s *Server) handleSessionStart(args json.RawMessage) (interface{}, error) {
	var a configArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	cfg, err := a.apply(s.defaults)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = chroma.NewVideoSession(cfg)
	s.mu.Unlock()

	s.log.Info().Str("session_id", id).Msg("session started")
	return map[string]interface{}{
		"session_id": id,
	}, nil
}

type sessionFrameArgs struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
}

func (s *Server) handleSessionAddFrame(args json.RawMessage) (interface{}, error) {
	var a sessionFrameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	sess := s.session(a.SessionID)
	if sess == nil {
		return nil, fmt.Errorf("unknown session: %s", a.SessionID)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	frame := imaging.ToFrame(img)
	result, ok := chroma.Detect(frame.Pixels, frame.Width, frame.Height, sess.Config())
	if ok {
		sess.AddFrameResult(result)
	}

	return map[string]interface{}{
		"recorded":    ok,
		"frame_count": sess.FrameCount(),
	}, nil
}

type sessionIDArgs struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleSessionConsensus(args json.RawMessage) (interface{}, error) {
	var a sessionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	sess := s.session(a.SessionID)
	if sess == nil {
		return nil, fmt.Errorf("unknown session: %s", a.SessionID)
	}

	result, ok := sess.Consensus()
	resp := detectionResponse(result, ok)
	resp["frame_count"] = sess.FrameCount()
	return resp, nil
}

type sessionConfigArgs struct {
	SessionID string `json:"session_id"`
	configArgs
}

func (s *Server) handleSessionConfig(args json.RawMessage) (interface{}, error) {
	var a sessionConfigArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	sess := s.session(a.SessionID)
	if sess == nil {
		return nil, fmt.Errorf("unknown session: %s", a.SessionID)
	}

	cfg, err := a.apply(sess.Config())
	if err != nil {
		return nil, err
	}
	sess.SetConfig(cfg)

	return map[string]interface{}{
		"config": cfg,
	}, nil
}

func (s *Server) handleSessionEnd(args json.RawMessage) (interface{}, error) {
	var a sessionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, exists := s.sessions[a.SessionID]
	delete(s.sessions, a.SessionID)
	s.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("unknown session: %s", a.SessionID)
	}

	s.log.Info().Str("session_id", a.SessionID).Msg("session ended")
	return map[string]interface{}{
		"ended": true,
	}, nil
}
