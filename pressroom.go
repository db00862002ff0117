// Package pressroom provides a content ingestion and editorial normalization
// pipeline. It extracts clean article bodies from web pages or raw text,
// scores and repairs them against parser noise, optionally runs an
// AI-assisted editorial pass, and tracks each request through a job state
// machine.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gemini/, sqlite/).
package pressroom
