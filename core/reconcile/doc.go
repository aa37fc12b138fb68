// Package reconcile is the order reconciliation engine. It brings the commerce
// platform's shipping and payment state in line with the POS, once per order
// lifecycle.
//
// # Architecture
//
// The engine consists of five parts:
//
// 1. Cache: a JSON file of external codes that are already settled, with a
//    shadow backup written before every update so that a crash mid-write
//    always leaves one readable copy.
//
// 2. Decide: a pure function translating a POS status plus the platform's
//    shipping/payment state into an ordered list of actions (pack, fulfill,
//    mark paid).
//
// 3. Worker: reconciles one order. It checks the cache, queries the platform,
//    runs the decided actions in order and records settled orders. Failures
//    (and panics) are contained in the order's Result.
//
// 4. BatchProcessor: runs workers in fixed-size concurrent groups with a full
//    barrier between groups, bounding the outbound load on the platform.
//
// 5. Driver: one end-to-end run. Logs into the POS, lists the orders of the
//    last year, loads the cache once and feeds the batch processor.
//
// # Collaborators
//
// The POS (Source) and the commerce platform (Platform) are interfaces; the
// HTTP implementations live in core/pos and core/commerce.
//
// # Usage Example
//
//	cache := reconcile.NewFileCache("data/shipped-orders.json", logger)
//	driver := reconcile.NewDriver(posClient, commerceClient, cache, reconcile.Options{GroupSize: 5}, logger)
//	report, err := driver.Run(ctx)
package reconcile
