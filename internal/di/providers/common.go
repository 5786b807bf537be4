package providers

import "time"

// shutdownTimeout bounds graceful shutdown of long-lived services.
const shutdownTimeout = 30 * time.Second
