// Package pos is the HTTP client for the point-of-sale order API.
//
// It implements reconcile.Source: Login exchanges the configured credentials
// for a session token, and ListOrders fetches the external order listing for
// a date window (dates in MM/DD/YYYY). Non-2xx responses are returned as
// *StatusError so callers can surface the HTTP status and reason.
package pos
