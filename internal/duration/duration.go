// Package duration parses durations that may use day based units on top of
// what time.ParseDuration accepts, e.g. "7d", "2w" or "1.5M".
package duration

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/pflag"
)

const day = 24 * time.Hour

var units = []struct {
	suffix string
	size   time.Duration
}{
	{"d", day},
	{"w", 7 * day},
	{"M", 30 * day},
	{"y", 365 * day},
}

// Parse accepts Go durations, a number with one of the suffixes d, w, M or y,
// or a bare number of seconds.
func Parse(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	size := time.Second
	num := s
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			size, num = u.size, strings.TrimSuffix(s, u.suffix)
			break
		}
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, errors.Errorf("invalid duration %q", s)
	}
	return time.Duration(n * float64(size)), nil
}

// Value is a time.Duration flag that understands Parse syntax.
type Value time.Duration

func (d *Value) String() string {
	v := time.Duration(*d)
	for i := len(units) - 1; i >= 0; i-- {
		if v != 0 && v%units[i].size == 0 {
			return strconv.FormatInt(int64(v/units[i].size), 10) + units[i].suffix
		}
	}
	return v.String()
}

func (d *Value) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*d = Value(v)
	return nil
}

func (d *Value) Type() string {
	return "duration"
}

func (d *Value) UnmarshalText(text []byte) error {
	return d.Set(string(text))
}

// Var defines a duration flag backed by p.
func Var(f *pflag.FlagSet, p *time.Duration, name string, value time.Duration, usage string) {
	*p = value
	f.Var((*Value)(p), name, usage)
}
