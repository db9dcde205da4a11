/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

// Fakin' It
//
// Every round one player is quietly handed a different prompt than everyone
// else. All players answer, the answers are shown side by side, and then
// everyone votes on who was faking. Catching the faker is worth a point to
// each honest player; getting away with it is worth two to the faker.

const nobody = "Nobody"

type fakinItRules struct {
	prompts []string

	prompt    string
	decoy     string
	fakerName string
}

type fakinItDeal struct {
	Round   int    `json:"round"`
	IsFaker bool   `json:"isFaker"`
	Prompt  string `json:"prompt"`
}

type fakinItAnswer struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Answer     string `json:"answer"`
}

type fakinItResults struct {
	FakerCaught     bool       `json:"fakerCaught"`
	FakerName       string     `json:"fakerName"`
	MostVotedPlayer string     `json:"mostVotedPlayer"`
	Scores          []Standing `json:"scores"`
}

func (r *fakinItRules) Begin(g *RoundGame) {
	i := g.draw(len(r.prompts))
	r.prompt = r.prompts[i]
	r.decoy = r.prompt
	if n := len(r.prompts); n > 1 {
		j := g.srv.rng.IntN(n - 1)
		if j >= i {
			j++
		}
		r.decoy = r.prompts[j]
	}

	r.fakerName = ""

	players := g.ordered()
	if len(players) == 0 {
		return
	}
	f := players[g.srv.rng.IntN(len(players))]
	f.Faker = true
	r.fakerName = f.Name
}

func (r *fakinItRules) Deal(g *RoundGame, p *RoundPlayer) any {
	prompt := r.prompt
	if p.Faker {
		prompt = r.decoy
	}

	return fakinItDeal{Round: g.round, IsFaker: p.Faker, Prompt: prompt}
}

func (r *fakinItRules) Reveal(g *RoundGame) any {
	answers := make([]fakinItAnswer, 0, len(g.players))
	for _, p := range g.ordered() {
		if !p.Submitted {
			continue
		}
		answers = append(answers, fakinItAnswer{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Answer:     p.Submission,
		})
	}

	g.shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	return map[string]any{"answers": answers}
}

// Target accepts anyone who held a seat this session, the voter included.
// Votes are kept by name.
func (r *fakinItRules) Target(g *RoundGame, voter *RoundPlayer, target string) (string, bool) {
	return g.seatName(target)
}

func (r *fakinItRules) Resolve(g *RoundGame) any {
	players := g.ordered()
	suspect := plurality(players, g.votes)
	caught := suspect != "" && suspect == r.fakerName

	if caught {
		for _, p := range players {
			if p.Name != r.fakerName {
				p.Score++
			}
		}
	} else if f, ok := g.byName(r.fakerName); ok {
		f.Score += 2
	}

	mostVoted := nobody
	if suspect != "" {
		mostVoted = suspect
	}

	scores := make([]Standing, 0, len(players))
	for _, p := range players {
		scores = append(scores, Standing{Name: p.Name, Score: p.Score})
	}

	return fakinItResults{
		FakerCaught:     caught,
		FakerName:       r.fakerName,
		MostVotedPlayer: mostVoted,
		Scores:          scores,
	}
}

func (r *fakinItRules) Final(standings []Standing) any {
	return map[string]any{"scores": standings}
}

// plurality returns the name with strictly the most votes. A tie goes to
// the name whose first vote came from the earliest voter in seat order.
// It returns "" when nobody voted.
func plurality(voters []*RoundPlayer, votes map[string]string) string {
	counts := make(map[string]int)
	var order []string

	for _, v := range voters {
		target, ok := votes[v.Name]
		if !ok {
			continue
		}
		if counts[target] == 0 {
			order = append(order, target)
		}
		counts[target]++
	}

	best := ""
	for _, target := range order {
		if best == "" || counts[target] > counts[best] {
			best = target
		}
	}

	return best
}
