// Package server exposes the mesh over HTTP: query submission, agent
// discovery, and the session message log.
package server
