package utils

import (
	"time"
)

// ContextKey is the type for request-scoped context values.
type ContextKey string

// Request context keys
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Cache key namespaces
const (
	// PricingRulesCacheKey prefixes cached rule candidate sets, keyed by
	// procedure, price list, and insurance degree.
	PricingRulesCacheKey = "pricing:rules"
)

// Request handling constants
const (
	// DefaultRequestTimeout bounds a single API request
	DefaultRequestTimeout = 30 * time.Second

	// CalculationBatchLimit is the maximum number of items in a batch calculation request
	CalculationBatchLimit = 100
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// DateLayout is the wire format for effective dates (ISO calendar date).
const DateLayout = "2006-01-02"
