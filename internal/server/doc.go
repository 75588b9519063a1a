// Package server implements the MCP (Model Context Protocol) host binding
// for the chromakey detection engine.
//
// The server speaks JSON-RPC 2.0 over stdin/stdout: one request per line
// in, one response per line out. Logging goes to stderr so it cannot
// corrupt the protocol stream.
//
// # Protocol Flow
//
//  1. Client sends "initialize" -> server responds with capabilities
//  2. Client sends "notifications/initialized" -> no response
//  3. Client sends "tools/list" -> server responds with tool definitions
//  4. Client sends "tools/call" -> server executes and responds
//
// # Tools
//
// Image tools (chroma_image_info, chroma_detect_file, chroma_detect_region,
// chroma_sample_hsv) are stateless apart from the decoded-image cache. Session tools
// (chroma_session_*) manage caller-owned video analysis sessions keyed by
// server-issued UUIDs; each session accumulates per-frame results until
// a consensus is requested or the session is ended.
//
// # Error Handling
//
// Malformed requests and tool failures map to JSON-RPC errors (-32602,
// -32000, -32601). "No chromakey detected" is not an error: detection
// tools report it as a normal result with "detected": false.
package server
