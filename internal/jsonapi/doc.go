// Package jsonapi translates between the flat parameter maps used by MCP tool
// invocations and the JSON:API envelopes spoken by the Persona REST API.
//
// Encoding takes a tool name and a flat, lowerCamelCase parameter map and
// produces an outbound request: identifiers named by the route's path template
// are substituted into the URL, read requests carry the remaining keys as
// query parameters, and write requests carry them under data.attributes.
//
// Decoding is the mirror image. A JSON:API resource document is flattened back
// into a single map (attributes merged with id and type), and a JSON:API error
// document becomes an *UpstreamError holding one DomainError per entry, with
// source pointers and parameters preserved so a caller can correct its input.
//
// The round-trip law holds per body shape. For attribute routes,
// Decode(200, body).Data equals the parameters minus path identifiers. Action
// routes send their parameters as a meta document, so they come back in
// Result.Meta instead. Read routes have no body; their parameters travel as
// query parameters and do not round-trip through Decode.
//
// A Translator holds only an immutable route table; every method is a pure
// function of its inputs and is safe for concurrent use. It performs no I/O and
// never retries.
package jsonapi
