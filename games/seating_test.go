/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"errors"
	"slices"
	"testing"
)

func TestSeating(t *testing.T) {
	s := newSeating([]string{"Ann", "Bob", "Cat"})

	steps := []struct {
		requested string
		conn      string
		want      string
		err       error
	}{
		{"Cat", "c1", "Cat", nil},
		{"", "c2", "Ann", nil},
		{"Cat", "c3", "Bob", nil},
		{"Ann", "c2", "Ann", nil},
		{"Zed", "c4", "", ErrSessionFull},
	}

	for i, st := range steps {
		got, err := s.Claim(st.requested, st.conn)
		if !errors.Is(err, st.err) || got != st.want {
			t.Fatalf("step %d: got %q %v, want %q %v", i, got, err, st.want, st.err)
		}
	}

	if !s.Full() || s.Len() != 3 || s.Expected() != 3 {
		t.Fatalf("got %d of %d seated", s.Len(), s.Expected())
	}
	if got := s.Order(); !slices.Equal(got, []string{"c2", "c3", "c1"}) {
		t.Errorf("got order %v", got)
	}
	if s.Index("c1") != 2 || s.Index("nobody") != -1 {
		t.Error("wrong seat index")
	}

	name, ok := s.Release("c3")
	if !ok || name != "Bob" || s.Seated("c3") || s.Full() {
		t.Fatalf("release gave %q %v", name, ok)
	}
	if _, ok := s.Release("c3"); ok {
		t.Error("released twice")
	}

	if got, _ := s.Claim("", "c5"); got != "Bob" {
		t.Errorf("free seat went to %q", got)
	}
}
