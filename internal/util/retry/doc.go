// Package retry retries operations against remote stores with exponential
// backoff. Errors marked with [Permanent] end the loop immediately.
package retry
