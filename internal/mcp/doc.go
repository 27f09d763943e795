// Package mcp exposes the Persona API as Model Context Protocol tools,
// resources and prompts.
//
// Every enabled catalog entry becomes one tool. A call is validated against
// the tool's JSON schema, encoded into a JSON:API request by the envelope
// translator, sent through the Persona client, decoded and scrubbed for
// secrets before it reaches the assistant. Failures are returned as tool
// errors whose structured content names the code, pointer and parameter to
// correct.
//
// The server runs on stdio (Run) or streamable HTTP (HTTPHandler).
package mcp
