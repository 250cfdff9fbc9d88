/*
Package domain contains the core domain models for the Notemill orchestrator.

It defines the in-memory representation of a notebook document and the values
that flow through the execution pipeline. This package is kept pure and free of
external I/O or persistence concerns, following Hexagonal Architecture
principles.

# Key Entities

  - Notebook: The ordered, cell-based document being parameterized and executed.
  - Cell: A single unit within a Notebook (code, markdown, or raw).
  - Output: An execution result attached to a code cell (stream, error, ...).
  - Parameters: An insertion-ordered set of named, type-resolved values.
  - ExecutionError: The structured failure produced when a code cell fails.
*/
package domain
