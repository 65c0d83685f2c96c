// Package gatewayroute implements both sides of the gateway-route relation.
//
// The Requirer side is used by the configurator to publish a RouteConfig in
// its own databag. The Provider side is used by integrators to read the
// records every configurator published.
//
// # Record Format
//
// A record is a flat string map:
//
//	hostname     plain string
//	paths        JSON array of strings
//	port         decimal string
//	application  plain string
//	model        plain string (the application's namespace)
//
// Encoding is stable: the same RouteConfig always yields the same databag.
package gatewayroute
