// Package server provides HTTP routing, middleware, and a fixture API for local pipeline runs.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] added first runs outermost. [BasicRouter] registers method-specific routes as ServeMux method
// patterns ("GET /ping"), so a mismatched method gets a 405 from the mux itself.
//
// # Fixture Handler
//
// [FixtureHandler] serves generated users and employees at /users/ and /employees/, the same paths the pipeline
// fetches. Payloads are built once from a seeded gofakeit faker, so every request returns the same bytes.
//
// Roughly one employee in ten has its optional fields set to null and one in twenty references a user that does
// not exist, which exercises the fill and join steps. Keyed mode wraps each list in an object under "users" or
// "employees".
//
// # Current Usage
//
// `staffx serve` mounts the fixture handler on a [BasicRouter] with [LoggingMiddleware] and runs it through
// [Server] until interrupted.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
