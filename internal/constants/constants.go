package constants

import "time"

const (
	//分頁
	DefaultPage     int = 1
	DefaultPageSize int = 12
	MaxPageSize     int = 100
)

// for api
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	SessionIDKey ContextKey = "session_id"
)

const (
	RequestIDHeader = "X-Request-ID"
	SessionIDHeader = "X-Session-ID"
	MaxSessionIDLen = 128
)

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

// kafka topic
const (
	CartEventsTopic  = "eventro.cart.events"
	OrderEventsTopic = "eventro.order.events"
	OrderProjectorID = "eventro-order-projector"
)

const (
	DefaultSessionTTL    = 30 * 24 * time.Hour
	DefaultShutdownGrace = 10 * time.Second
)
