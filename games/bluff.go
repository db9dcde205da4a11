/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "fmt"

// Fictionary and Scriptionary
//
// Players see a real but obscure word (or programming term) and each writes
// a convincing fake definition. The fakes are shuffled together with the
// real one and everyone votes for the definition they believe. Fooling
// someone earns a point per vote, finding the real definition earns two.

const realDefinition = "real"

// realVote is how a vote for the real definition is stored. Seat names are
// never empty, so it cannot collide with an author.
const realVote = ""

const (
	correctGuessPoints = 2
	dictionaryName     = "Dictionary"
)

type bluffRules struct {
	entries     []Entry
	categorized bool

	entry   Entry
	authors map[string]bool // names with a definition on the board
}

type bluffDeal struct {
	Round    int    `json:"round"`
	Word     string `json:"word"`
	Category string `json:"category,omitempty"`
}

type bluffDefinition struct {
	ID         string `json:"id"`
	Definition string `json:"definition"`
}

type bluffReveal struct {
	Word        string            `json:"word"`
	Category    string            `json:"category,omitempty"`
	Definitions []bluffDefinition `json:"definitions"`
}

type bluffBreakdown struct {
	Name            string   `json:"name"`
	PointsThisRound int      `json:"pointsThisRound"`
	Reasons         []string `json:"reasons"`
}

type bluffScore struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Definition string `json:"definition"`
}

type fictionaryResults struct {
	Word             string           `json:"word"`
	RealDefinition   string           `json:"realDefinition"`
	VoteCounts       map[string]int   `json:"voteCounts"`
	ScoringBreakdown []bluffBreakdown `json:"scoringBreakdown"`
	PlayerScores     []bluffScore     `json:"playerScores"`
}

type scriptionaryResults struct {
	Word              string              `json:"word"`
	Category          string              `json:"category"`
	CorrectDefinition string              `json:"correctDefinition"`
	VoteCounts        map[string]int      `json:"voteCounts"`
	PointsAwarded     map[string]int      `json:"pointsAwarded"`
	PointReasons      map[string][]string `json:"pointReasons"`
	PlayerScores      []bluffScore        `json:"playerScores"`
}

func (r *bluffRules) Begin(g *RoundGame) {
	r.entry = r.entries[g.draw(len(r.entries))]
	r.authors = make(map[string]bool)
}

func (r *bluffRules) Deal(g *RoundGame, p *RoundPlayer) any {
	d := bluffDeal{Round: g.round, Word: r.entry.Word}
	if r.categorized {
		d.Category = r.entry.Category
	}

	return d
}

// Reveal lists every fake plus the real definition, without authors.
func (r *bluffRules) Reveal(g *RoundGame) any {
	defs := make([]bluffDefinition, 0, len(g.players)+1)
	for _, p := range g.ordered() {
		if !p.Submitted {
			continue
		}
		r.authors[p.Name] = true
		defs = append(defs, bluffDefinition{ID: p.ID, Definition: p.Submission})
	}
	defs = append(defs, bluffDefinition{ID: realDefinition, Definition: r.entry.Definition})

	g.shuffle(len(defs), func(i, j int) {
		defs[i], defs[j] = defs[j], defs[i]
	})

	reveal := bluffReveal{Word: r.entry.Word, Definitions: defs}
	if r.categorized {
		reveal.Category = r.entry.Category
	}

	return reveal
}

// Target accepts the real definition or any definition on the board, even
// when its author has reconnected since the reveal. Voting for your own is
// allowed but earns nothing.
func (r *bluffRules) Target(g *RoundGame, voter *RoundPlayer, target string) (string, bool) {
	if target == realDefinition {
		return realVote, true
	}
	name, ok := g.seatName(target)
	if !ok || !r.authors[name] {
		return "", false
	}

	return name, true
}

// bluffTally is the outcome of one round of votes.
type bluffTally struct {
	received map[string]int  // author name -> votes from other players
	correct  map[string]bool // voter name -> voted for the real definition
	counts   map[string]int  // author name -> votes, "Dictionary" for the real one
}

// tallyBluff counts votes keyed by voter name, each naming an author or
// realVote.
func tallyBluff(votes map[string]string) bluffTally {
	t := bluffTally{
		received: make(map[string]int),
		correct:  make(map[string]bool),
		counts:   make(map[string]int),
	}

	for voter, target := range votes {
		switch {
		case target == realVote:
			t.correct[voter] = true
			t.counts[dictionaryName]++
		case target == voter:
			// own definition
		default:
			t.received[target]++
			t.counts[target]++
		}
	}

	return t
}

// Points is what name earned this round, with the reasons shown to players.
func (t bluffTally) Points(name string) (int, []string) {
	points := 0
	reasons := []string{}

	if n := t.received[name]; n > 0 {
		points += n
		reasons = append(reasons, fmt.Sprintf("%d vote(s) for fake definition (+1 each)", n))
	}
	if t.correct[name] {
		points += correctGuessPoints
		reasons = append(reasons, fmt.Sprintf("Guessed correct definition (+%d)", correctGuessPoints))
	}

	return points, reasons
}

func (r *bluffRules) Resolve(g *RoundGame) any {
	tally := tallyBluff(g.votes)

	players := g.ordered()
	breakdown := make([]bluffBreakdown, 0, len(players))
	awarded := make(map[string]int, len(players))
	reasons := make(map[string][]string, len(players))
	scores := make([]bluffScore, 0, len(players))

	for _, p := range players {
		points, why := tally.Points(p.Name)
		p.Score += points

		breakdown = append(breakdown, bluffBreakdown{Name: p.Name, PointsThisRound: points, Reasons: why})
		awarded[p.Name] = points
		reasons[p.Name] = why
		scores = append(scores, bluffScore{Name: p.Name, Score: p.Score, Definition: p.Submission})
	}

	if r.categorized {
		return scriptionaryResults{
			Word:              r.entry.Word,
			Category:          r.entry.Category,
			CorrectDefinition: r.entry.Definition,
			VoteCounts:        tally.counts,
			PointsAwarded:     awarded,
			PointReasons:      reasons,
			PlayerScores:      scores,
		}
	}

	return fictionaryResults{
		Word:             r.entry.Word,
		RealDefinition:   r.entry.Definition,
		VoteCounts:       tally.counts,
		ScoringBreakdown: breakdown,
		PlayerScores:     scores,
	}
}

func (r *bluffRules) Final(standings []Standing) any {
	if r.categorized {
		return map[string]any{"finalScores": standings}
	}

	return map[string]any{"scores": standings}
}
