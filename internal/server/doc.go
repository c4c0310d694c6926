// Package server implements the MCP (Model Context Protocol) server for the
// image optimizer.
//
// This package provides a JSON-RPC 2.0 server that exposes the adaptive
// image optimization core through the MCP protocol, enabling MCP-compatible
// clients to shrink images to fit dimension and byte budgets.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_optimize: Optimize an image file against a maximum pixel
//     dimension and byte budget; returns a base64 data URI plus metadata.
//   - image_optimize_data_uri: Same operation for an image supplied inline
//     as a base64 data URI.
//   - image_inspect: Report dimensions, format, alpha/opacity and average
//     color of an image file.
//   - image_estimate_bytes: Compute the decoded size of a base64 data URI
//     payload without decoding it.
//
// Tool execution errors are returned as JSON-RPC errors with code -32000;
// malformed parameters produce code -32602. The server holds no per-request
// state, so any number of sequential tool calls can be served from one
// process.
package server
