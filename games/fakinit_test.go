/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "testing"

func TestPlurality(t *testing.T) {
	voters := []*RoundPlayer{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}

	tests := []struct {
		name  string
		votes map[string]string
		want  string
	}{
		{"nobody voted", map[string]string{}, ""},
		{"clear winner", map[string]string{"a": "x", "b": "y", "c": "x"}, "x"},
		{"tie goes to first voted in seat order", map[string]string{"a": "y", "b": "x", "c": "x", "d": "y"}, "y"},
		{"later strict winner", map[string]string{"a": "y", "b": "x", "c": "x"}, "x"},
		{"unseated voters ignored", map[string]string{"zz": "y", "a": "x"}, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plurality(voters, tt.votes); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// fakinItRound plays round one up to voting and returns the faker and
// the honest players.
func fakinItRound(t *testing.T, ts *testServer, names ...string) (*Client, []*Client) {
	t.Helper()

	clients := ts.play(ActivityFakinIt, names...)
	g := ts.srv.rounds[ActivityFakinIt]

	var faker *Client
	var honest []*Client
	for _, c := range clients {
		p, _ := g.Player(c.ID())
		if p.Faker {
			faker = c
		} else {
			honest = append(honest, c)
		}
		ts.submit(ActivityFakinIt, c, "an answer from "+c.name)
	}
	if faker == nil || len(honest) != len(names)-1 {
		t.Fatalf("got %d honest players and faker %v", len(honest), faker)
	}

	return faker, honest
}

func scoresByName(g *RoundGame) map[string]int {
	scores := make(map[string]int)
	for _, p := range g.ordered() {
		scores[p.Name] = p.Score
	}

	return scores
}

func TestFakinItDealsOneDecoy(t *testing.T) {
	ts := newTestServer(t, testOptions())
	clients := ts.play(ActivityFakinIt, "Ann", "Bob", "Cat", "Dan")

	fakers := 0
	prompts := make(map[string]int)
	for _, c := range clients {
		starts := filter(drain(c), "fakinit_round_start")
		if len(starts) != 1 {
			t.Fatalf("%s got %d round starts", c.name, len(starts))
		}
		d := starts[0].Data.(fakinItDeal)
		if d.IsFaker {
			fakers++
		}
		prompts[d.Prompt]++
	}

	if fakers != 1 {
		t.Fatalf("got %d fakers, want 1", fakers)
	}
	if len(prompts) != 2 {
		t.Errorf("got prompts %v, want one real and one decoy", prompts)
	}
}

func TestFakinItCaught(t *testing.T) {
	ts := newTestServer(t, testOptions())
	faker, honest := fakinItRound(t, ts, "Ann", "Bob", "Cat", "Dan")
	g := ts.srv.rounds[ActivityFakinIt]

	reveal := filter(drain(faker), "fakinit_show_answers")
	if len(reveal) != 1 || len(reveal[0].Data.(map[string]any)["answers"].([]fakinItAnswer)) != 4 {
		t.Fatalf("got reveal %+v", reveal)
	}

	for _, c := range honest {
		ts.vote(ActivityFakinIt, c, faker.ID())
	}
	ts.vote(ActivityFakinIt, faker, honest[0].ID())

	results := filter(drain(honest[0]), "fakinit_round_results")
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	r := results[0].Data.(fakinItResults)
	if !r.FakerCaught || r.FakerName != faker.name || r.MostVotedPlayer != faker.name {
		t.Errorf("got results %+v", r)
	}

	scores := scoresByName(g)
	if scores[faker.name] != 0 {
		t.Errorf("faker has %d, want 0", scores[faker.name])
	}
	for _, c := range honest {
		if scores[c.name] != 1 {
			t.Errorf("%s has %d, want 1", c.name, scores[c.name])
		}
	}
}

func TestFakinItEscapes(t *testing.T) {
	ts := newTestServer(t, testOptions())
	faker, honest := fakinItRound(t, ts, "Ann", "Bob", "Cat", "Dan")
	g := ts.srv.rounds[ActivityFakinIt]

	for _, c := range append(honest, faker) {
		ts.vote(ActivityFakinIt, c, honest[0].ID())
	}

	r := filter(drain(faker), "fakinit_round_results")[0].Data.(fakinItResults)
	if r.FakerCaught || r.MostVotedPlayer != honest[0].name {
		t.Errorf("got results %+v", r)
	}

	scores := scoresByName(g)
	if scores[faker.name] != 2 {
		t.Errorf("faker has %d, want 2", scores[faker.name])
	}
	for _, c := range honest {
		if scores[c.name] != 0 {
			t.Errorf("%s has %d, want 0", c.name, scores[c.name])
		}
	}
}

func TestFakinItNobodyVoted(t *testing.T) {
	opts := testOptions()
	opts.VoteTimeout = opts.JoinGrace

	ts := newTestServer(t, opts)
	faker, _ := fakinItRound(t, ts, "Ann", "Bob")
	g := ts.srv.rounds[ActivityFakinIt]

	ts.sched.advance(opts.VoteTimeout)

	r := filter(drain(faker), "fakinit_round_results")[0].Data.(fakinItResults)
	if r.FakerCaught || r.MostVotedPlayer != nobody {
		t.Errorf("got results %+v", r)
	}
	if scoresByName(g)[faker.name] != 2 {
		t.Error("faker was not rewarded")
	}
}

func TestFakinItVoteTargets(t *testing.T) {
	ts := newTestServer(t, testOptions())
	faker, honest := fakinItRound(t, ts, "Ann", "Bob")

	if err := ts.do(honest[0], EventFakinItVote, map[string]any{"suspectedFaker": "someone"}); err != ErrUnknownTarget {
		t.Fatalf("got %v, want %v", err, ErrUnknownTarget)
	}
	ts.vote(ActivityFakinIt, faker, faker.ID())
}

func TestFakinItFakerReconnectsWhileAnswering(t *testing.T) {
	ts := newTestServer(t, testOptions())
	clients := ts.play(ActivityFakinIt, "Ann", "Bob", "Cat")
	g := ts.srv.rounds[ActivityFakinIt]

	var faker *Client
	var honest []*Client
	for _, c := range clients {
		if p, _ := g.Player(c.ID()); p.Faker {
			faker = c
		} else {
			honest = append(honest, c)
		}
	}
	decoy := filter(drain(faker), "fakinit_round_start")[0].Data.(fakinItDeal)
	name := faker.name

	ts.srv.disconnect(faker)
	back := ts.connect("")
	ts.must(back, EventJoinFakinIt, map[string]any{"playerName": name})

	starts := filter(drain(back), "fakinit_round_start")
	if len(starts) != 1 {
		t.Fatalf("got %d round starts", len(starts))
	}
	if d := starts[0].Data.(fakinItDeal); !d.IsFaker || d.Prompt != decoy.Prompt {
		t.Fatalf("rejoined faker was dealt %+v, want %+v", d, decoy)
	}

	for _, c := range append(honest, back) {
		ts.submit(ActivityFakinIt, c, "an answer")
	}
	for _, c := range append(honest, back) {
		ts.vote(ActivityFakinIt, c, honest[0].ID())
	}

	if scores := scoresByName(g); scores[name] != 2 {
		t.Errorf("faker has %d, want 2", scores[name])
	}
}

func TestFakinItFakerReconnectsWhileVoting(t *testing.T) {
	ts := newTestServer(t, testOptions())
	faker, honest := fakinItRound(t, ts, "Ann", "Bob", "Cat")
	g := ts.srv.rounds[ActivityFakinIt]
	shown, name := faker.ID(), faker.name

	ts.srv.disconnect(faker)
	back := ts.connect(name)
	ts.must(back, EventJoinFakinIt, nil)

	if got := filter(drain(back), "fakinit_show_answers"); len(got) != 1 {
		t.Fatalf("rejoined faker got %d reveals", len(got))
	}

	for _, c := range honest {
		ts.vote(ActivityFakinIt, c, shown)
	}
	ts.vote(ActivityFakinIt, back, back.ID())

	r := filter(drain(honest[0]), "fakinit_round_results")[0].Data.(fakinItResults)
	if !r.FakerCaught || r.MostVotedPlayer != name {
		t.Errorf("got results %+v", r)
	}

	scores := scoresByName(g)
	if scores[name] != 0 {
		t.Errorf("faker has %d, want 0", scores[name])
	}
	for _, c := range honest {
		if scores[c.name] != 1 {
			t.Errorf("%s has %d, want 1", c.name, scores[c.name])
		}
	}
}
