// Package agent provides the agent implementations that make up an ad
// operations mesh: a Base type carrying identity and bus access, the five
// domain specialists (analyst, trader, creative ops, compliance, media
// planner), and the Router that coordinates them over budgeted sessions.
package agent
