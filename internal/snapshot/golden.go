package snapshot

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares text against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name, text string) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(text))
}

// AssertOutcome renders o and compares it against the named golden file.
func AssertOutcome(t *testing.T, name string, o Outcome) {
	t.Helper()
	AssertGolden(t, name, o.Render())
}
