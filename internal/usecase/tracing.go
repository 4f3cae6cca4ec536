package usecase

import "go.opentelemetry.io/otel"

// tracer resolves against the global provider installed at startup.
var tracer = otel.Tracer("go-appointment-booking/internal/usecase")
