/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"slices"
	"testing"
)

func TestTallyBluff(t *testing.T) {
	tests := []struct {
		name  string
		votes map[string]string
		want  map[string]int
	}{
		{
			name:  "fooled twice and found the real one",
			votes: map[string]string{"Ann": realVote, "Bob": "Ann", "Cat": "Ann"},
			want:  map[string]int{"Ann": 4, "Bob": 0, "Cat": 0},
		},
		{
			name:  "self votes earn nothing",
			votes: map[string]string{"Ann": "Ann", "Bob": "Ann", "Cat": realVote},
			want:  map[string]int{"Ann": 1, "Bob": 0, "Cat": 2},
		},
		{
			name:  "everyone found it",
			votes: map[string]string{"Ann": realVote, "Bob": realVote, "Cat": realVote},
			want:  map[string]int{"Ann": 2, "Bob": 2, "Cat": 2},
		},
		{
			name:  "nobody voted",
			votes: map[string]string{},
			want:  map[string]int{"Ann": 0, "Bob": 0, "Cat": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tally := tallyBluff(tt.votes)
			for name, want := range tt.want {
				if got, _ := tally.Points(name); got != want {
					t.Errorf("%s earned %d, want %d", name, got, want)
				}
			}
		})
	}
}

func TestTallyBluffCounts(t *testing.T) {
	tally := tallyBluff(map[string]string{"Ann": "Ann", "Bob": "Ann", "Cat": realVote})

	if tally.counts["Ann"] != 1 || tally.counts[dictionaryName] != 1 || len(tally.counts) != 2 {
		t.Errorf("got counts %v", tally.counts)
	}

	_, reasons := tally.Points("Ann")
	want := []string{"1 vote(s) for fake definition (+1 each)"}
	if !slices.Equal(reasons, want) {
		t.Errorf("got reasons %q, want %q", reasons, want)
	}
}

func TestScriptionaryRound(t *testing.T) {
	ts := newTestServer(t, testOptions())
	clients := ts.play(ActivityScriptionary, "Ann", "Bob")
	ann, bob := clients[0], clients[1]
	g := ts.srv.rounds[ActivityScriptionary]

	ts.submit(ActivityScriptionary, ann, "a kind of loop")
	ts.submit(ActivityScriptionary, bob, "a compiler flag")

	reveal := filter(drain(bob), "scriptionary_show_definitions")
	if len(reveal) != 1 {
		t.Fatalf("got %d reveals", len(reveal))
	}
	if r := reveal[0].Data.(bluffReveal); r.Category == "" || r.Word == "" {
		t.Errorf("got reveal %+v", r)
	}

	ts.vote(ActivityScriptionary, ann, bob.ID())
	ts.vote(ActivityScriptionary, bob, realDefinition)

	results := filter(drain(ann), "scriptionary_round_results")
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	r := results[0].Data.(scriptionaryResults)
	if r.PointsAwarded["Bob"] != 3 || r.PointsAwarded["Ann"] != 0 {
		t.Errorf("got points %v", r.PointsAwarded)
	}
	if len(r.PointReasons["Bob"]) != 2 || r.CorrectDefinition == "" || r.Category == "" {
		t.Errorf("got results %+v", r)
	}

	final := g.rules.Final(g.Standings()).(map[string]any)
	if standings := final["finalScores"].([]Standing); standings[0].Name != "Bob" {
		t.Errorf("got standings %+v", standings)
	}
}

func TestBluffAuthorReconnectsDuringVoting(t *testing.T) {
	ts := newTestServer(t, testOptions())
	clients := ts.play(ActivityFictionary, "Ann", "Bob", "Cat")
	ann, bob, cat := clients[0], clients[1], clients[2]
	g := ts.srv.rounds[ActivityFictionary]

	ts.submit(ActivityFictionary, ann, "a sort of hat")
	ts.submit(ActivityFictionary, bob, "a small boat")
	ts.submit(ActivityFictionary, cat, "a loud noise")
	shown := ann.ID()

	ts.srv.disconnect(ann)
	back := ts.connect("")
	ts.must(back, EventJoinFictionary, map[string]any{"playerName": "Ann"})

	if got := filter(drain(back), "fictionary_show_definitions"); len(got) != 1 {
		t.Fatalf("rejoined author got %d reveals", len(got))
	}

	ts.vote(ActivityFictionary, bob, shown)
	ts.vote(ActivityFictionary, cat, shown)
	ts.vote(ActivityFictionary, back, realDefinition)

	if g.Phase() != PhaseResolved {
		t.Fatalf("got phase %v, want resolved", g.Phase())
	}

	r := filter(drain(back), "fictionary_round_results")[0].Data.(fictionaryResults)
	if r.VoteCounts["Ann"] != 2 {
		t.Errorf("got vote counts %v", r.VoteCounts)
	}
	if scores := scoresByName(g); scores["Ann"] != 4 {
		t.Errorf("Ann has %d, want 4", scores["Ann"])
	}
}

func TestBluffSelfVoteSurvivesReconnect(t *testing.T) {
	ts := newTestServer(t, testOptions())
	clients := ts.play(ActivityScriptionary, "Ann", "Bob")
	ann, bob := clients[0], clients[1]
	g := ts.srv.rounds[ActivityScriptionary]

	ts.submit(ActivityScriptionary, ann, "a kind of loop")
	ts.submit(ActivityScriptionary, bob, "a compiler flag")
	shown := ann.ID()

	ts.srv.disconnect(ann)
	back := ts.connect("Ann")
	ts.must(back, EventJoinScript, nil)

	ts.vote(ActivityScriptionary, back, shown)
	ts.vote(ActivityScriptionary, bob, realDefinition)

	r := filter(drain(bob), "scriptionary_round_results")[0].Data.(scriptionaryResults)
	if r.PointsAwarded["Ann"] != 0 || r.PointsAwarded["Bob"] != 2 {
		t.Errorf("got points %v", r.PointsAwarded)
	}
	if g.Phase() != PhaseResolved {
		t.Errorf("got phase %v", g.Phase())
	}
}
