// Package model defines the minimal language-model interface agents use for
// narrative synthesis, plus a deterministic MockModel for tests and demos.
// Provider adapters (Anthropic, OpenAI) live in sub-packages; select one at
// wiring time and hand it to the agents that should produce prose summaries.
//
// Agents treat the model as optional: every agent has a deterministic
// fallback, so a missing or failing model degrades output quality, never
// correctness.
package model
