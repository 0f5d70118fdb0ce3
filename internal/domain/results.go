package domain

import "fmt"

const (
	ResultVictory = "V"
	ResultDefeat  = "D"
)

// NoSets marks a set count the remote source did not report.
const NoSets = -1

type ClubMemberResultEntry struct {
	Date                string
	OpponentUniqueIndex int
	OpponentFirstName   string
	OpponentLastName    string
	OpponentRanking     string
	ResultIndicator     string
	SetsFor             int
	SetsAgainst         int
}

func (e ClubMemberResultEntry) OpponentName() string {
	return fmt.Sprintf("%s %s", e.OpponentFirstName, e.OpponentLastName)
}

// Result renders "for-against" from the member's point of view. The remote
// source sometimes reports the two counts swapped, so they are reordered to
// agree with the result indicator.
func (e ClubMemberResultEntry) Result() string {
	if e.SetsFor == NoSets || e.SetsAgainst == NoSets {
		return ""
	}
	if (e.ResultIndicator == ResultVictory && e.SetsAgainst > e.SetsFor) ||
		(e.ResultIndicator == ResultDefeat && e.SetsFor > e.SetsAgainst) {
		return fmt.Sprintf("%d-%d", e.SetsAgainst, e.SetsFor)
	}
	return fmt.Sprintf("%d-%d", e.SetsFor, e.SetsAgainst)
}

func (e ClubMemberResultEntry) IsVictory() bool {
	return e.ResultIndicator == ResultVictory
}
