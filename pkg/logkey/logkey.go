package logkey

// Keys used for structured logging across the service, so log queries
// can rely on consistent attribute names.
const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"
	CartID  = "CartID"
	OrderID = "OrderID"
)
