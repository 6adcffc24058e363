// Package services talks to the HTTP API that serves the user and employee collections.
//
// # Source Interface
//
// The pipeline depends on [Source], which returns the raw body of a GET request. [APIService] implements it over
// net/http and is swapped for a fake in tests.
//
// # Rate Limiting
//
// [APIService.WithRateLimit] attaches a token bucket from golang.org/x/time/rate. Each request waits for a token
// before it is sent, and a cancelled context aborts the wait.
//
// # Error Handling
//
// Every failure is wrapped in [shared.ErrNetwork]: request construction, transport errors, body reads and non-2xx
// statuses from [APIService.FetchJSON]. Decoding is left to the caller so that malformed bodies surface as
// [shared.ErrDecode] at the shaping step.
package services
