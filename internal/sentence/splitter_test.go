package sentence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBasicSentences(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("The quick brown fox jumps. The lazy dog sleeps under the tree.")
	require.Len(t, got, 2)
	assert.Equal(t, "The quick brown fox jumps.", got[0])
	assert.Equal(t, "The lazy dog sleeps under the tree.", got[1])
}

func TestSplitEmptyInput(t *testing.T) {
	sp := NewSplitter("en", 0)

	assert.Nil(t, sp.Split(""))
	assert.Nil(t, sp.Split("   \n\t  "))
}

func TestSplitNoTerminator(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("a fragment with no terminator at all")
	require.Len(t, got, 1)
	assert.Equal(t, "a fragment with no terminator at all", got[0])
}

func TestSplitAbbreviationsDoNotSplit(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("Dr. Smith visited the clinic yesterday. The results came back negative.")
	require.Len(t, got, 2)
	assert.Equal(t, "Dr. Smith visited the clinic yesterday.", got[0])

	got = sp.Split("We invited engineers, designers, managers, etc. to the quarterly review meeting.")
	require.Len(t, got, 1)
}

func TestSplitInitialsDoNotSplit(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("The report by J. Smith covers the entire incident. Nobody disputed the findings.")
	require.Len(t, got, 2)
	assert.Equal(t, "The report by J. Smith covers the entire incident.", got[0])
}

func TestSplitDecimalsAndClockTimes(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("The throughput improved by 3.5 percent over the previous release cycle.")
	require.Len(t, got, 1)

	got = sp.Split("The meeting starts at 12:30 in the main conference room downstairs.")
	require.Len(t, got, 1)
}

func TestSplitStrongTerminators(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("Watch out for the falling rocks! nobody was injured in the end.")
	require.Len(t, got, 2)
	assert.Equal(t, "Watch out for the falling rocks!", got[0])

	got = sp.Split("Could this possibly work at scale? early benchmarks say it can.")
	require.Len(t, got, 2)
}

func TestSplitEllipsisCollapsed(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("The story trails off into silence... nobody ever found the ending.")
	require.Len(t, got, 2)
	assert.Equal(t, "The story trails off into silence...", got[0])
}

func TestSplitLowercaseStarterAccepted(t *testing.T) {
	sp := NewSplitter("en", 0)

	// "however" is a starter word, so the boundary is accepted even
	// without capitalization.
	got := sp.Split("The first attempt failed completely. however the second one succeeded nicely.")
	require.Len(t, got, 2)
}

func TestSplitLowercaseNonStarterRejected(t *testing.T) {
	sp := NewSplitter("en", 0)

	// "running" is not a starter, so the period is treated as internal.
	got := sp.Split("See the file named config.yaml for the running configuration options.")
	require.Len(t, got, 1)
}

func TestSplitMergesShortSentences(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("The deployment finished without any observable errors. Good. Everyone went home soon after.")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "Good.")
}

func TestSplitShortOpenerMergesForward(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split("Yes! The rollout completed ahead of schedule across every region.")
	require.Len(t, got, 1)
	assert.Equal(t, "Yes! The rollout completed ahead of schedule across every region.", got[0])
}

func TestSplitQuotedBoundary(t *testing.T) {
	sp := NewSplitter("en", 0)

	got := sp.Split(`The operator said the system was stable. "Everything looks green," she reported.`)
	require.Len(t, got, 2)
}

func TestSplitDeterministic(t *testing.T) {
	sp := NewSplitter("en", 128)
	text := "The cache returns the same result every time. Repeated calls must agree exactly."

	first := sp.Split(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, sp.Split(text))
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("auto"))
	assert.True(t, Supported("en"))
	assert.False(t, Supported("fr"))
	assert.False(t, Supported(""))
}
