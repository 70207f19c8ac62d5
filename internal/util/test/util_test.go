package main

import (
	"testing"
	"time"

	util "wordlebot/internal/util"
)

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		dur      time.Duration
		expected string
	}{
		{time.Second * 5, "5 seconds"},
		{time.Second * 65, "1 minute, 5 seconds"},
		{time.Second * 3665, "1 hour, 1 minute, 5 seconds"},
		{time.Second * 3600, "1 hour, 0 minutes, 0 seconds"},
		{time.Second * 60, "1 minute, 0 seconds"},
		{time.Second * 1, "1 second"},
	}
	for _, c := range cases {
		got := util.FormatUptime(c.dur)
		if got != c.expected {
			t.Errorf("FormatUptime(%v) = %q, want %q", c.dur, got, c.expected)
		}
	}
}

func TestPlural(t *testing.T) {
	if util.Plural(1) != "" {
		t.Errorf("Plural(1) = %q, want \"\"", util.Plural(1))
	}
	if util.Plural(2) != "s" {
		t.Errorf("Plural(2) = %q, want \"s\"", util.Plural(2))
	}
	if util.Plural(0) != "s" {
		t.Errorf("Plural(0) = %q, want \"s\"", util.Plural(0))
	}
}
