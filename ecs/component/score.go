package component

// ScoreBoard holds both players' points.
type ScoreBoard struct {
	Score1   int
	Score2   int
	WinScore int
	// Winner is 0 while the match is running, otherwise 1 or 2.
	Winner int
}

var ScoreBoardComponent = NewComponent[ScoreBoard]()
