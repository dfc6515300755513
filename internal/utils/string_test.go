package utils

import (
	"reflect"
	"testing"
)

func TestFormatWithCommas(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := FormatWithCommas(tt.in); got != tt.want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single", in: "cat", want: []string{"cat"}},
		{name: "syllables kept", in: "bánh mì, mì quảng", want: []string{"bánh mì", "mì quảng"}},
		{name: "blanks dropped", in: " , cat,, ", want: []string{"cat"}},
		{name: "empty", in: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "word", "words"); got != "word" {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := Plural(0, "word", "words"); got != "words" {
		t.Errorf("Plural(0) = %q", got)
	}
}
