package innebandy

// Wire types for the federation stats API. Field names mirror the API's
// camel-cased payloads; decoding is case-insensitive so casing drift on the
// remote side is tolerated.

type startkitEnvelope struct {
	AccessToken *string `json:"accessToken"`
}

type Competition struct {
	CompetitionID     int    `json:"competitionID"`
	Name              string `json:"name"`
	CategoryName      string `json:"categoryName"`
	CompetitionStatus string `json:"competitionStatus"`
	AgeCategoryID     int    `json:"ageCategoryID"`
	FederationName    string `json:"federationName"`
	SeasonName        string `json:"seasonName"`
	GenderID          int    `json:"genderID"`
}

type Match struct {
	MatchID             int    `json:"matchID"`
	MatchNo             string `json:"matchNo"`
	CompetitionID       int    `json:"competitionID"`
	CompetitionName     string `json:"competitionName"`
	CategoryName        string `json:"categoryName"`
	HomeTeamID          int    `json:"homeTeamID"`
	HomeTeam            string `json:"homeTeam"`
	HomeTeamShortName   string `json:"homeTeamShortName"`
	HomeTeamLogotypeURL string `json:"homeTeamLogotypeUrl"`
	AwayTeamID          int    `json:"awayTeamID"`
	AwayTeam            string `json:"awayTeam"`
	AwayTeamShortName   string `json:"awayTeamShortName"`
	AwayTeamLogotypeURL string `json:"awayTeamLogotypeUrl"`
	// Kept as the raw provider string; the API emits local timestamps
	// without a zone offset and the aggregation never needs the value.
	MatchDateTime   string       `json:"matchDateTime"`
	Venue           string       `json:"venue"`
	GoalsHomeTeam   *int         `json:"goalsHomeTeam"`
	GoalsAwayTeam   *int         `json:"goalsAwayTeam"`
	MatchStatus     int          `json:"matchStatus"`
	Round           int          `json:"round"`
	RoundName       string       `json:"roundName"`
	HomeMatchTeamID int          `json:"homeMatchTeamID"`
	AwayMatchTeamID int          `json:"awayMatchTeamID"`
	Events          []MatchEvent `json:"events"`
}

// MatchStatusCompleted marks a match as played and officially reported.
const MatchStatusCompleted = 4

// Match event type codes carried by the API. Only goals and penalties feed
// the standings aggregation.
const (
	EventTypeGoal    = 1
	EventTypePenalty = 2
)

type MatchEvent struct {
	MatchEventID        int     `json:"matchEventID"`
	MatchID             int     `json:"matchID"`
	MatchEventTypeID    int     `json:"matchEventTypeID"`
	MatchEventType      string  `json:"matchEventType"`
	Period              int     `json:"period"`
	PeriodName          string  `json:"periodName"`
	Minute              int     `json:"minute"`
	Second              int     `json:"second"`
	PlayerID            int     `json:"playerID"`
	PlayerName          string  `json:"playerName"`
	PlayerShirtNo       *int    `json:"playerShirtNo"`
	PlayerAssistID      int     `json:"playerAssistID"`
	PlayerAssistName    string  `json:"playerAssistName"`
	PlayerAssistShirtNo *int    `json:"playerAssistShirtNo"`
	MatchTeamID         int     `json:"matchTeamID"`
	IsHomeTeam          *bool   `json:"isHomeTeam"`
	MatchTeamName       string  `json:"matchTeamName"`
	MatchTeamShortName  *string `json:"matchTeamShortName"`
	GoalsHomeTeam       int     `json:"goalsHomeTeam"`
	GoalsAwayTeam       int     `json:"goalsAwayTeam"`
	PenaltyCode         string  `json:"penaltyCode"`
	PenaltyName         string  `json:"penaltyName"`
	IsPpGoal            bool    `json:"isPpGoal"`
}

type Lineup struct {
	MatchID           int            `json:"matchID"`
	HomeTeamID        int            `json:"homeTeamID"`
	HomeTeam          string         `json:"homeTeam"`
	HomeTeamShortName string         `json:"homeTeamShortName"`
	AwayTeamID        int            `json:"awayTeamID"`
	AwayTeam          string         `json:"awayTeam"`
	AwayTeamShortName string         `json:"awayTeamShortName"`
	HomeTeamPlayers   []LineupPlayer `json:"homeTeamPlayers"`
	AwayTeamPlayers   []LineupPlayer `json:"awayTeamPlayers"`
}

type LineupPlayer struct {
	PlayerID  int    `json:"playerID"`
	TeamID    int    `json:"teamID"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	BirthYear int    `json:"birthYear"`
	ShirtNo   *int   `json:"shirtNo"`
}

// Player is the federation-wide profile; its cumulative stats span all
// competitions, so the aggregation uses it only to backfill identity fields.
type Player struct {
	PlayerID                int    `json:"playerID"`
	Name                    string `json:"name"`
	Age                     int    `json:"age"`
	BirthYear               int    `json:"birthYear"`
	ShirtNo                 *int   `json:"shirtNo"`
	Position                string `json:"position"`
	Matches                 int    `json:"matches"`
	Goals                   int    `json:"goals"`
	Assists                 int    `json:"assists"`
	Points                  int    `json:"points"`
	PenaltyMinutes          int    `json:"penaltyMinutes"`
	LicensedAssociationName string `json:"licensedAssociationName"`
}
