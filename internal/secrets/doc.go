// Package secrets detects and redacts credentials in Persona payloads before
// they reach the assistant.
//
// Persona echoes some secrets back in normal responses (webhook signing
// secrets on create, API keys in API log bodies), so every tool and
// resource result is passed through a Scrubber. Findings keep the rule ID
// and position but never the matched text.
package secrets
