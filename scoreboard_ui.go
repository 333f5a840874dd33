package main

import (
	"strconv"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pong/assets"
	"github.com/milk9111/pong/match"
	"golang.org/x/image/colornames"
)

const scoreFontSize = 40

// ScoreUI shows both counters at the top centre and the winner once the match is over.
type ScoreUI struct {
	ui     *ebitenui.UI
	left   *widget.Text
	right  *widget.Text
	banner *widget.Text
}

func NewScoreUI() (*ScoreUI, error) {
	face, err := assets.ScoreFace(scoreFontSize)
	if err != nil {
		return nil, err
	}
	small := assets.UIFace()

	left := widget.NewText(widget.TextOpts.Text("0", &face, colornames.White))
	right := widget.NewText(widget.TextOpts.Text("0", &face, colornames.White))
	banner := widget.NewText(
		widget.TextOpts.Text("", &small, colornames.Gold),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	counters := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(80),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	counters.AddChild(left)
	counters.AddChild(right)

	column := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionStart})),
	)
	column.AddChild(counters)
	column.AddChild(banner)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(column)

	return &ScoreUI{
		ui:     &ebitenui.UI{Container: root},
		left:   left,
		right:  right,
		banner: banner,
	}, nil
}

func (s *ScoreUI) Update(m *match.Match) {
	score1, score2, winner := m.Score()
	s.left.Label = strconv.Itoa(score1)
	s.right.Label = strconv.Itoa(score2)
	if winner != 0 {
		s.banner.Label = "Player " + strconv.Itoa(winner) + " wins - press R"
	} else {
		s.banner.Label = ""
	}
	s.ui.Update()
}

func (s *ScoreUI) Draw(screen *ebiten.Image) {
	s.ui.Draw(screen)
}
