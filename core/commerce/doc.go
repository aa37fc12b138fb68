// Package commerce is the HTTP client for the e-commerce platform (Tiendanube).
//
// It implements reconcile.Platform:
//   - FindOrder: GET /{store}/orders?q={code}; first match wins.
//   - Pack: POST /{store}/orders/{id}/pack
//   - Fulfill: POST /{store}/orders/{id}/fulfill with a placeholder tracking
//     number and notify_customer=false.
//   - MarkPaid: POST /{store}/orders/{id}/transactions recording a successful
//     cash sale for the order total.
//
// Every non-2xx response is returned as *StatusError, so a rejected action is
// never mistaken for a completed one. An optional token-bucket limiter
// (golang.org/x/time/rate) throttles outbound requests.
package commerce
