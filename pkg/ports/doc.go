/*
Package ports defines the capability interfaces consumed by the Notemill
orchestrator, following Hexagonal Architecture principles.

The orchestrator depends only on these interfaces; concrete adapters (file,
stdio, http, redis notebook stores, subprocess engines) live under
internal/adapters and internal/engines and are selected at process start.
*/
package ports
