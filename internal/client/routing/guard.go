// Package routing classifies navigable routes into the auth-only and
// app-only partitions and decides, per navigation attempt, whether a route
// may render or where to redirect instead.
//
// Decisions are pure functions of (session status, partition): the guard
// holds no state, has no side effects, and is safe to call redundantly on
// every status change and navigation attempt.
package routing

import (
	"fmt"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/session"
)

// Partition classifies a navigable region. Exactly one partition is active
// per route; the two partitions are mutually exclusive and exhaustive over
// the navigable surface.
type Partition int

const (
	// PartitionAuth covers the login and registration screens.
	PartitionAuth Partition = iota
	// PartitionApp covers everything behind sign-in.
	PartitionApp
)

func (p Partition) String() string {
	switch p {
	case PartitionAuth:
		return "auth"
	case PartitionApp:
		return "app"
	default:
		return fmt.Sprintf("partition(%d)", int(p))
	}
}

// Decision is the outcome of a guard evaluation.
//
// When Allow is true and ShowLoading is set, the session is still
// initializing: the caller must render a neutral loading affordance instead
// of the partition's content. RedirectTo is non-empty iff Allow is false.
type Decision struct {
	Allow       bool
	ShowLoading bool
	RedirectTo  string
}

// Guard evaluates navigation against a static route table supplied at
// startup. The guard never infers partition membership.
type Guard struct {
	partitions map[string]Partition
	authEntry  string
	appHome    string
}

// NewGuard builds a Guard. authEntry and appHome are the redirect targets
// for the two rejection cases; partitions maps every navigable route name
// to its partition.
func NewGuard(authEntry, appHome string, partitions map[string]Partition) *Guard {
	table := make(map[string]Partition, len(partitions))
	for name, p := range partitions {
		table[name] = p
	}
	return &Guard{partitions: table, authEntry: authEntry, appHome: appHome}
}

// Decide maps (status, partition) to a Decision. Rules, in order:
//
//  1. Initializing: allow, but the caller renders a loading affordance.
//  2. Authenticated on the auth partition: redirect to app home.
//  3. Unauthenticated on the app partition: redirect to auth entry.
//  4. Otherwise: allow.
func (g *Guard) Decide(status session.Status, partition Partition) Decision {
	switch {
	case status == session.StatusInitializing:
		return Decision{Allow: true, ShowLoading: true}
	case status == session.StatusAuthenticated && partition == PartitionAuth:
		return Decision{RedirectTo: g.appHome}
	case status == session.StatusUnauthenticated && partition == PartitionApp:
		return Decision{RedirectTo: g.authEntry}
	default:
		return Decision{Allow: true}
	}
}

// Evaluate looks the route up in the table and delegates to Decide. An
// unknown route is a wiring bug, reported as an error rather than guessed.
func (g *Guard) Evaluate(status session.Status, route string) (Decision, error) {
	partition, ok := g.partitions[route]
	if !ok {
		return Decision{}, fmt.Errorf("route %q not in any partition", route)
	}
	return g.Decide(status, partition), nil
}

// Routes returns the names in the table, for diagnostics.
func (g *Guard) Routes() []string {
	names := make([]string, 0, len(g.partitions))
	for name := range g.partitions {
		names = append(names, name)
	}
	return names
}
