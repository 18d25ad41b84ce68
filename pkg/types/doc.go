// Package types defines the tracker entities (Project, Milestone, Criterion,
// Admin), the draft payloads sent to the backend, the client Config, and the
// standard error values shared by every layer of the client.
package types
