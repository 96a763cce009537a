package backend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/pacer/backend"
)

// captureWarnings swaps OnWarning for a collector for the test's duration
// and resets the warn-once guard on both sides.
func captureWarnings(t *testing.T) *[]backend.Warning {
	t.Helper()
	var got []backend.Warning
	orig := backend.OnWarning
	backend.OnWarning = func(w backend.Warning) { got = append(got, w) }
	backend.ResetWarnings()
	t.Cleanup(func() {
		backend.OnWarning = orig
		backend.ResetWarnings()
	})
	return &got
}

// TestResolveDisabled returns the silent backend when rendering is switched
// off by environment.
func TestResolveDisabled(t *testing.T) {
	t.Setenv("PACER_DISABLE", "true")

	require.Equal(t, "nop", backend.Resolve().Name())
}

// TestResolveForcedBackend honors an explicit backend name when registered.
func TestResolveForcedBackend(t *testing.T) {
	fb := newFake("fake-forced")
	backend.Register(fb)
	t.Cleanup(func() { backend.Unregister(fb.name) })
	t.Setenv("PACER_BACKEND", "fake-forced")

	require.Same(t, backend.Backend(fb), backend.Resolve())
}

// TestResolveForcedMissingWarnsOnce degrades to the standard backend and
// advises exactly once no matter how often resolution runs.
func TestResolveForcedMissingWarnsOnce(t *testing.T) {
	got := captureWarnings(t)
	t.Setenv("PACER_BACKEND", "ghost")

	require.Equal(t, backend.Standard().Name(), backend.Resolve().Name())
	require.Equal(t, backend.Standard().Name(), backend.Resolve().Name())
	require.Len(t, *got, 1)
	require.Contains(t, (*got)[0].Error(), "ghost")
}

// TestResolveInteractivePrefersRich picks the rich backend when the session
// is forced interactive and the backend is registered.
func TestResolveInteractivePrefersRich(t *testing.T) {
	rich := newFake(backend.RichName)
	backend.Register(rich)
	t.Cleanup(func() { backend.Unregister(rich.name) })
	t.Setenv("PACER_INTERACTIVE", "always")

	require.Same(t, backend.Backend(rich), backend.Resolve())
}

// TestResolveInteractiveWithoutRichWarns falls to the standard backend with
// a single advisory when the widget backend is not linked in.
func TestResolveInteractiveWithoutRichWarns(t *testing.T) {
	got := captureWarnings(t)
	t.Setenv("PACER_INTERACTIVE", "always")

	require.Equal(t, backend.Standard().Name(), backend.Resolve().Name())
	require.Len(t, *got, 1)
	require.Contains(t, (*got)[0].Error(), backend.RichName)
}

// TestResolveNonInteractive stays on the standard backend under CI even if
// the rich backend is available.
func TestResolveNonInteractive(t *testing.T) {
	rich := newFake(backend.RichName)
	backend.Register(rich)
	t.Cleanup(func() { backend.Unregister(rich.name) })
	t.Setenv("CI", "1")
	t.Setenv("PACER_INTERACTIVE", "auto")

	require.Equal(t, backend.Standard().Name(), backend.Resolve().Name())
}

// TestResolveNeverPanics proves a panicking warning hook cannot break
// resolution; the standard backend comes back regardless.
func TestResolveNeverPanics(t *testing.T) {
	orig := backend.OnWarning
	backend.OnWarning = func(backend.Warning) { panic("hook gone wrong") }
	backend.ResetWarnings()
	t.Cleanup(func() {
		backend.OnWarning = orig
		backend.ResetWarnings()
	})
	t.Setenv("PACER_BACKEND", "ghost")

	var b backend.Backend
	require.NotPanics(t, func() { b = backend.Resolve() })
	require.NotNil(t, b)
	require.Equal(t, backend.Standard().Name(), b.Name())
}

// TestWarningError formats the advisory with the package prefix.
func TestWarningError(t *testing.T) {
	t.Parallel()

	w := backend.Warning{Reason: "no terminal"}
	require.Equal(t, "pacer: no terminal", w.Error())
}
