// Package route defines the routing record exchanged with gateway integrators.
//
// # Overview
//
// A RouteConfig combines the hostname and path list an operator configures
// with the application facts an ingress provider assigns (application name,
// namespace and port). The package validates both halves:
//
//   - ValidateHostname checks the DNS label grammar. Labels are lowercase
//     alphanumerics and hyphens, must not start or end with a hyphen, and are
//     separated by dots. Uppercase input is rejected.
//   - ParsePaths splits a comma separated list, trimming each element. Order
//     is preserved, duplicates are kept and empty elements pass through.
//
// # Gateway API
//
// HTTPRoute renders a RouteConfig as a Gateway API HTTPRoute with one
// PathPrefix rule per path, each forwarding to the application Service.
package route
