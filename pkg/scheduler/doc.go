// Package scheduler tracks outstanding resolve and browse attempts and
// decides when each query is sent again.
//
// An attempt is keyed by the peer it resolves, or by the (kind, filter)
// pair it browses for, so repeated requests collapse onto one attempt. The
// table is bounded by Config.Capacity; marking a new key on a full table
// fails with discovery.ErrResourceExhausted.
//
// Sends follow an exponential backoff:
//
//	send 0: now (asks for a unicast answer)
//	send 1: +InitialDelay
//	send n: +min(InitialDelay*Multiplier^(n-1), MaxDelay)
//
// An attempt whose MaxRetries retries went unanswered is removed when its
// next send comes due. Expired resolves are queued for TakeExpired; expired
// browses are dropped silently.
//
// The Scheduler is not safe for concurrent use.
package scheduler
