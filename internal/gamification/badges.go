package gamification

type BadgeType string

const (
	BadgeFirstSession   BadgeType = "first_session"
	Badge10Sessions     BadgeType = "10_sessions"
	Badge50Sessions     BadgeType = "50_sessions"
	Badge100Sessions    BadgeType = "100_sessions"
	Badge5Reviews       BadgeType = "5_reviews"
	Badge10Reviews      BadgeType = "10_reviews"
	Badge25Reviews      BadgeType = "25_reviews"
	Badge5Themes        BadgeType = "5_themes"
	Badge10Themes       BadgeType = "10_themes"
	BadgeStreak7        BadgeType = "streak_7"
	BadgeStreak30       BadgeType = "streak_30"
	BadgeStreak100      BadgeType = "streak_100"
	BadgePerfectSession BadgeType = "perfect_session"
	// BadgeImprovement is in the catalog but has no evaluation rule.
	// It stays dormant until a trigger is actually defined.
	BadgeImprovement BadgeType = "improvement"
)

type BadgeDefinition struct {
	Type        BadgeType `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// Catalog lists every badge in grant-evaluation order.
var Catalog = []BadgeDefinition{
	{Type: BadgeFirstSession, Name: "First Step", Description: "Log your first study session", Icon: "🎯"},
	{Type: Badge10Sessions, Name: "Dedication", Description: "Log 10 study sessions", Icon: "📚"},
	{Type: Badge50Sessions, Name: "Persistence", Description: "Log 50 study sessions", Icon: "🔥"},
	{Type: Badge100Sessions, Name: "Master", Description: "Log 100 study sessions", Icon: "👑"},
	{Type: Badge5Reviews, Name: "Reviewer", Description: "Complete 5 reviews", Icon: "🔄"},
	{Type: Badge10Reviews, Name: "Seasoned Reviewer", Description: "Complete 10 reviews", Icon: "⭐"},
	{Type: Badge25Reviews, Name: "Review Master", Description: "Complete 25 reviews", Icon: "🏆"},
	{Type: Badge5Themes, Name: "Explorer", Description: "Study 5 different themes", Icon: "🌍"},
	{Type: Badge10Themes, Name: "Polymath", Description: "Study 10 different themes", Icon: "🧠"},
	{Type: BadgeStreak7, Name: "Week of Fire", Description: "7 consecutive days of study", Icon: "🔥"},
	{Type: BadgeStreak30, Name: "Month of Dedication", Description: "30 consecutive days of study", Icon: "💪"},
	{Type: BadgeStreak100, Name: "Legend", Description: "100 consecutive days of study", Icon: "🌟"},
	{Type: BadgePerfectSession, Name: "Perfection", Description: "A session with 100% accuracy", Icon: "✨"},
	{Type: BadgeImprovement, Name: "Evolution", Description: "Significant performance improvement", Icon: "📈"},
}

// Definition looks a badge up in the catalog.
func Definition(t BadgeType) (BadgeDefinition, bool) {
	for _, def := range Catalog {
		if def.Type == t {
			return def, true
		}
	}
	return BadgeDefinition{}, false
}

// Stats is the aggregate snapshot badges are judged against. It is
// recomputed from storage on every session/review event rather than
// maintained incrementally.
type Stats struct {
	TotalSessions     int  `json:"total_sessions"`
	TotalReviews      int  `json:"total_reviews"`
	TotalThemes       int  `json:"total_themes"`
	CurrentStreak     int  `json:"current_streak"`
	HasPerfectSession bool `json:"has_perfect_session"`
}

func (s Stats) qualifies(t BadgeType) bool {
	switch t {
	case BadgeFirstSession:
		return s.TotalSessions == 1
	case Badge10Sessions:
		return s.TotalSessions >= 10
	case Badge50Sessions:
		return s.TotalSessions >= 50
	case Badge100Sessions:
		return s.TotalSessions >= 100
	case Badge5Reviews:
		return s.TotalReviews >= 5
	case Badge10Reviews:
		return s.TotalReviews >= 10
	case Badge25Reviews:
		return s.TotalReviews >= 25
	case Badge5Themes:
		return s.TotalThemes >= 5
	case Badge10Themes:
		return s.TotalThemes >= 10
	case BadgeStreak7:
		return s.CurrentStreak >= 7
	case BadgeStreak30:
		return s.CurrentStreak >= 30
	case BadgeStreak100:
		return s.CurrentStreak >= 100
	case BadgePerfectSession:
		return s.HasPerfectSession
	default:
		return false
	}
}

// EvaluateBadges returns the badges the snapshot newly qualifies for, in
// catalog order, skipping anything in earned. Persisting the grants (and
// surviving the duplicate-insert race) is the caller's problem.
func EvaluateBadges(stats Stats, earned map[BadgeType]bool) []BadgeType {
	var out []BadgeType
	for _, def := range Catalog {
		if earned[def.Type] {
			continue
		}
		if stats.qualifies(def.Type) {
			out = append(out, def.Type)
		}
	}
	return out
}
