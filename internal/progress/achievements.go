package progress

import "time"

// Rule describes one achievement and when it is earned.
type Rule struct {
	ID          string
	Name        string
	Description string
	Icon        string
	// Condition reports whether the achievement is earned by the profile
	// after play has been applied to it.
	Condition func(p *UserProfile, play Play) bool
}

// Achievement builds the unlocked record for the rule.
func (r Rule) Achievement(at time.Time) Achievement {
	return Achievement{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		UnlockedAt:  at,
	}
}

// RuleSet evaluates the achievement table against a profile.
type RuleSet struct {
	rules []Rule
}

// DefaultRules returns the built-in achievements.
func DefaultRules() *RuleSet {
	return NewRuleSet(builtinRules())
}

// NewRuleSet creates a rule set from rules, evaluated in order.
func NewRuleSet(rules []Rule) *RuleSet {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return &RuleSet{rules: out}
}

// Rules returns a copy of the table.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Lookup returns the rule with the given id.
func (rs *RuleSet) Lookup(id string) (Rule, bool) {
	for _, r := range rs.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Evaluate appends every achievement newly earned by play to p and returns
// them.
func (rs *RuleSet) Evaluate(p *UserProfile, play Play, now time.Time) []Achievement {
	var unlocked []Achievement
	for _, r := range rs.rules {
		if p.HasAchievement(r.ID) || !r.Condition(p, play) {
			continue
		}
		a := r.Achievement(now)
		p.Achievements = append(p.Achievements, a)
		unlocked = append(unlocked, a)
	}
	return unlocked
}

func completed(levelID int) func(*UserProfile, Play) bool {
	return func(p *UserProfile, _ Play) bool { return p.HasCompleted(levelID) }
}

func builtinRules() []Rule {
	return []Rule{
		{
			ID: "first_level", Name: "First Steps",
			Description: "Complete your first level",
			Icon:        "🎯",
			Condition:   func(p *UserProfile, _ Play) bool { return len(p.CompletedLevels) >= 1 },
		},
		{
			ID: "recursion_wizard", Name: "Recursion Wizard",
			Description: "Master the factorial recursion",
			Icon:        "🧙",
			Condition:   completed(1),
		},
		{
			ID: "fibonacci_master", Name: "Fibonacci Master",
			Description: "Resolve the whole Fibonacci call tree",
			Icon:        "🌀",
			Condition:   completed(2),
		},
		{
			ID: "sorting_sorcerer", Name: "Sorting Sorcerer",
			Description: "Sort the Bubble Labyrinth",
			Icon:        "🫧",
			Condition:   completed(3),
		},
		{
			ID: "flawless_sort", Name: "Flawless Sort",
			Description: "Sort the Bubble Labyrinth on the first verification",
			Icon:        "💎",
			Condition: func(_ *UserProfile, play Play) bool {
				return play.LevelID == 3 && play.Mistakes == 0 && play.Score >= 100
			},
		},
	}
}
