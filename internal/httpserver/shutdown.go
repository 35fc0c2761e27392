package httpserver

import "time"

// ShutdownTimeout controls how long in-flight uploads get to finish on shutdown.
var ShutdownTimeout = 30 * time.Second
