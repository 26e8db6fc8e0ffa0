package testutil

import "testing"

// Given, When, and Then name the phases of a scenario as nested subtests, so
// a single phase can be targeted with -run without pulling in a BDD framework.

func Given(t *testing.T, desc string, fn func(t *testing.T)) { phase(t, "Given", desc, fn) }

func When(t *testing.T, desc string, fn func(t *testing.T)) { phase(t, "When", desc, fn) }

func Then(t *testing.T, desc string, fn func(t *testing.T)) { phase(t, "Then", desc, fn) }

func phase(t *testing.T, name, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(name+" "+desc, fn)
}
