package duration

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]time.Duration{
		"90m":  90 * time.Minute,
		"1h5s": time.Hour + 5*time.Second,
		"7d":   7 * day,
		"2w":   14 * day,
		"1.5d": 36 * time.Hour,
		"1M":   30 * day,
		"1y":   365 * day,
		"30":   30 * time.Second,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("soon")
	assert.Error(t, err)
	_, err = Parse("xd")
	assert.Error(t, err)
}

func TestVar(t *testing.T) {
	var d time.Duration
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Var(fs, &d, "expire-in", 0, "")

	require.NoError(t, fs.Parse([]string{"--expire-in", "2w"}))
	assert.Equal(t, 14*day, d)
	assert.Equal(t, "2w", fs.Lookup("expire-in").Value.String())

	require.NoError(t, fs.Set("expire-in", "36h"))
	assert.Equal(t, "36h0m0s", fs.Lookup("expire-in").Value.String())
}
