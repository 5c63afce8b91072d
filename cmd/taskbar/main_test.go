package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewriteTaskShortcutArgs(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   []string
		want []string
	}{
		{in: []string{"taskbar"}, want: []string{"taskbar"}},
		{in: []string{"taskbar", "add", "Buy", "milk"}, want: []string{"taskbar", "tasks", "add", "Buy", "milk"}},
		{in: []string{"taskbar", "--store", "memory", "list"}, want: []string{"taskbar", "--store", "memory", "tasks", "list"}},
		{in: []string{"taskbar", "--format=text", "--pretty", "toggle", "ab"}, want: []string{"taskbar", "--format=text", "--pretty", "tasks", "toggle", "ab"}},
		{in: []string{"taskbar", "tasks", "add", "x"}, want: []string{"taskbar", "tasks", "add", "x"}},
		{in: []string{"taskbar", "config", "show"}, want: []string{"taskbar", "config", "show"}},
		{in: []string{"taskbar", "--", "add"}, want: []string{"taskbar", "--", "add"}},
	}
	for _, tc := range cases {
		got := rewriteTaskShortcutArgs(tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%v (-want +got):\n%s", tc.in, diff)
		}
	}
}
