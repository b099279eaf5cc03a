package standings

import (
	"sort"
	"strings"
)

// Filter narrows a standings table to exact matches on team, age and birth
// year. Zero-valued fields are not applied.
type Filter struct {
	Team      string
	Age       *int
	BirthYear *int
}

func (f Filter) Apply(rows []PlayerStanding) []PlayerStanding {
	out := make([]PlayerStanding, 0, len(rows))
	for _, row := range rows {
		if f.Team != "" && row.Team != f.Team {
			continue
		}
		if f.Age != nil && row.Age != *f.Age {
			continue
		}
		if f.BirthYear != nil && row.BirthYear != *f.BirthYear {
			continue
		}
		out = append(out, row)
	}
	return out
}

type SortKey string

const (
	SortByName          SortKey = "name"
	SortByAge           SortKey = "age"
	SortByBirthYear     SortKey = "birthyear"
	SortByTeam          SortKey = "team"
	SortByMatches       SortKey = "matches"
	SortByGoals         SortKey = "goals"
	SortByAssists       SortKey = "assists"
	SortByPointsPerGame SortKey = "ppg"
	SortByPenalty       SortKey = "penalty"
	SortByPoints        SortKey = "points"
)

// ParseSortKey maps a request value to a sort key, falling back to points.
func ParseSortKey(raw string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	switch key {
	case SortByName, SortByAge, SortByBirthYear, SortByTeam, SortByMatches,
		SortByGoals, SortByAssists, SortByPointsPerGame, SortByPenalty:
		return key
	default:
		return SortByPoints
	}
}

// Sort orders rows in place. The sort is stable, so rows tied on every
// compared field keep their aggregation order. Descending goal, assist and
// points-per-game sorts break ties on total points; the points sort breaks
// ties on goals and then name.
func Sort(rows []PlayerStanding, key SortKey, desc bool) {
	less := lessFunc(rows, key, desc)
	sort.SliceStable(rows, less)
}

func lessFunc(rows []PlayerStanding, key SortKey, desc bool) func(i, j int) bool {
	switch key {
	case SortByName:
		return func(i, j int) bool { return cmpString(rows[i].Name, rows[j].Name, desc) }
	case SortByAge:
		return func(i, j int) bool { return cmpInt(rows[i].Age, rows[j].Age, desc) }
	case SortByBirthYear:
		return func(i, j int) bool { return cmpInt(rows[i].BirthYear, rows[j].BirthYear, desc) }
	case SortByTeam:
		return func(i, j int) bool { return cmpString(rows[i].Team, rows[j].Team, desc) }
	case SortByMatches:
		return func(i, j int) bool { return cmpInt(rows[i].Matches, rows[j].Matches, desc) }
	case SortByGoals:
		return func(i, j int) bool {
			if desc && rows[i].Goals == rows[j].Goals {
				return rows[i].Points() > rows[j].Points()
			}
			return cmpInt(rows[i].Goals, rows[j].Goals, desc)
		}
	case SortByAssists:
		return func(i, j int) bool {
			if desc && rows[i].Assists == rows[j].Assists {
				return rows[i].Points() > rows[j].Points()
			}
			return cmpInt(rows[i].Assists, rows[j].Assists, desc)
		}
	case SortByPointsPerGame:
		return func(i, j int) bool {
			if desc && rows[i].PointsPerGame() == rows[j].PointsPerGame() {
				return rows[i].Points() > rows[j].Points()
			}
			if desc {
				return rows[i].PointsPerGame() > rows[j].PointsPerGame()
			}
			return rows[i].PointsPerGame() < rows[j].PointsPerGame()
		}
	case SortByPenalty:
		return func(i, j int) bool { return cmpInt(rows[i].PenaltyMinutes, rows[j].PenaltyMinutes, desc) }
	default:
		return func(i, j int) bool {
			if rows[i].Points() != rows[j].Points() {
				return cmpInt(rows[i].Points(), rows[j].Points(), desc)
			}
			if rows[i].Goals != rows[j].Goals {
				return cmpInt(rows[i].Goals, rows[j].Goals, desc)
			}
			return rows[i].Name < rows[j].Name
		}
	}
}

func cmpInt(a, b int, desc bool) bool {
	if desc {
		return a > b
	}
	return a < b
}

func cmpString(a, b string, desc bool) bool {
	if desc {
		return a > b
	}
	return a < b
}

// Facets lists the distinct filterable values present in a full table.
type Facets struct {
	Teams      []string
	Ages       []int
	BirthYears []int
}

func BuildFacets(rows []PlayerStanding) Facets {
	teamSet := make(map[string]struct{}, 16)
	ageSet := make(map[int]struct{}, 16)
	yearSet := make(map[int]struct{}, 16)
	for _, row := range rows {
		if row.Team != "" {
			teamSet[row.Team] = struct{}{}
		}
		if row.Age > 0 {
			ageSet[row.Age] = struct{}{}
		}
		if row.BirthYear > 0 {
			yearSet[row.BirthYear] = struct{}{}
		}
	}

	out := Facets{
		Teams:      make([]string, 0, len(teamSet)),
		Ages:       make([]int, 0, len(ageSet)),
		BirthYears: make([]int, 0, len(yearSet)),
	}
	for team := range teamSet {
		out.Teams = append(out.Teams, team)
	}
	for age := range ageSet {
		out.Ages = append(out.Ages, age)
	}
	for year := range yearSet {
		out.BirthYears = append(out.BirthYears, year)
	}
	sort.Strings(out.Teams)
	sort.Ints(out.Ages)
	sort.Ints(out.BirthYears)
	return out
}
