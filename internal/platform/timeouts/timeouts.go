// Package timeouts holds the shared deadlines used by demo bank processes.
package timeouts

import "time"

// ReadHeader bounds how long the console waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown bounds graceful HTTP shutdown.
const Shutdown = 5 * time.Second

// Request bounds a single console API request end to end.
const Request = 10 * time.Second

// Operation is the default deadline for one bankctl command.
const Operation = 30 * time.Second
