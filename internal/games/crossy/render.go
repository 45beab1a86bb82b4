package crossy

import (
	"fmt"
	"math"

	platformcore "github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy/core"
)

// Visual characters for rendering
const (
	GrassChar    = '░'
	RoadChar     = ' '
	LaneMark     = '·'
	TreeChar     = '♣'
	PlayerChar   = '@'
	SplatChar    = 'X'
	BuildingChar = '█'
)

const (
	hudRows     = 2 // score line and a spacer
	footerRows  = 1
	cameraBelow = 3 // rows shown behind the player
)

type vehicleStyle struct {
	body  rune
	color platformcore.Color
}

var vehicleStyles = map[core.VehicleKind]vehicleStyle{
	core.VehicleCar:       {'▆', platformcore.ColorBrightRed},
	core.VehicleTaxi:      {'▆', platformcore.ColorBrightYellow},
	core.VehicleTruck:     {'█', platformcore.ColorWhite},
	core.VehicleBus:       {'█', platformcore.ColorOrange},
	core.VehiclePolice:    {'▆', platformcore.ColorBrightBlue},
	core.VehicleAmbulance: {'▆', platformcore.ColorBrightWhite},
}

var buildingShades = [...]platformcore.Color{
	platformcore.ColorGray,
	platformcore.ColorWhite,
	platformcore.ColorGray,
	platformcore.ColorBlue,
}

// layout is the screen geometry for one frame.
type layout struct {
	cellW   int
	boardX  int
	boardY  int
	rows    int
	baseRow int // world row drawn on the bottom line
}

func (g *Game) layoutFor(dst *platformcore.Screen, snap core.Snapshot) (layout, bool) {
	rows := g.cfg.Board.VisibleRows
	if avail := dst.Height() - hudRows - footerRows; avail < rows {
		rows = avail
	}
	if rows < 5 {
		return layout{}, false
	}
	cellW := 4
	for cellW > 1 && snap.Cols*cellW+4 > dst.Width() {
		cellW--
	}
	if snap.Cols*cellW > dst.Width() {
		return layout{}, false
	}

	base := snap.Player.Row - cameraBelow
	if base < 0 {
		base = 0
	}
	return layout{
		cellW:   cellW,
		boardX:  (dst.Width() - snap.Cols*cellW) / 2,
		boardY:  hudRows,
		rows:    rows,
		baseRow: base,
	}, true
}

// rowY maps a world row to a screen line; ok is false when off screen.
func (l layout) rowY(row int) (int, bool) {
	rel := row - l.baseRow
	if rel < 0 || rel >= l.rows {
		return 0, false
	}
	return l.boardY + l.rows - 1 - rel, true
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	snap := g.engine.Snapshot()

	lay, ok := g.layoutFor(dst, snap)
	if !ok {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		return
	}

	g.drawBuildings(dst, lay, snap)
	for i := range snap.Lanes {
		g.drawLane(dst, lay, &snap.Lanes[i], snap.Cols)
	}
	g.drawPlayer(dst, lay, snap)
	g.drawHUD(dst, snap)

	switch {
	case snap.State == core.StateIdle:
		drawBanner(dst, "CROSSY", "Hop with arrows / WASD / Space", platformcore.ColorBrightGreen)
	case g.paused:
		drawBanner(dst, "PAUSED", "Press P to resume", platformcore.ColorBrightYellow)
	case snap.State == core.StateGameOver:
		best := snap.Session.Best
		if snap.Session.Score > best {
			best = snap.Session.Score
		}
		drawBanner(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  Best: %d  |  R restart  S submit", snap.Session.Score, best),
			platformcore.ColorBrightRed)
	}
}

func (g *Game) drawLane(dst *platformcore.Screen, lay layout, lane *core.Lane, cols int) {
	y, ok := lay.rowY(lane.Index)
	if !ok {
		return
	}
	width := cols * lay.cellW

	switch lane.Kind {
	case core.LaneSafe:
		for x := 0; x < width; x++ {
			dst.SetWithColor(lay.boardX+x, y, GrassChar, platformcore.ColorGreen)
		}
		for _, c := range lane.Obstacles {
			dst.SetWithColor(lay.boardX+c*lay.cellW+lay.cellW/2, y, TreeChar, platformcore.ColorBrightGreen)
		}
	case core.LaneRoad:
		for x := 0; x < width; x++ {
			r := RoadChar
			if x%4 == 0 {
				r = LaneMark
			}
			dst.SetWithColor(lay.boardX+x, y, r, platformcore.ColorGray)
		}
		for _, v := range lane.Vehicles {
			drawVehicle(dst, lay, y, width, lane.Dir, v)
		}
	}
}

func drawVehicle(dst *platformcore.Screen, lay layout, y, width, dir int, v core.Vehicle) {
	style := vehicleStyles[v.Kind]
	length := v.Kind.Length()*lay.cellW - 1
	if length < 1 {
		length = 1
	}
	center := (v.X + 0.5) * float64(lay.cellW)
	start := int(math.Round(center - float64(length)/2))

	for i := 0; i < length; i++ {
		x := start + i
		if x < 0 || x >= width {
			continue
		}
		r := style.body
		switch {
		case dir > 0 && i == length-1:
			r = '▶'
		case dir < 0 && i == 0:
			r = '◀'
		}
		dst.SetWithColor(lay.boardX+x, y, r, style.color)
	}
}

func (g *Game) drawPlayer(dst *platformcore.Screen, lay layout, snap core.Snapshot) {
	y, ok := lay.rowY(snap.Player.Row)
	if !ok {
		return
	}
	x := lay.boardX + snap.Player.Column*lay.cellW + lay.cellW/2
	if !snap.Player.Alive {
		dst.SetWithColor(x, y, SplatChar, platformcore.ColorRed)
		return
	}
	color := platformcore.ColorBrightYellow
	if snap.Hopping {
		color = platformcore.ColorYellow
	}
	dst.SetWithColor(x, y, PlayerChar, color)
}

func (g *Game) drawBuildings(dst *platformcore.Screen, lay layout, snap core.Snapshot) {
	boardW := snap.Cols * lay.cellW
	leftEdge := lay.boardX - 2
	rightEdge := lay.boardX + boardW + 1

	for _, b := range snap.Buildings {
		y, ok := lay.rowY(int(math.Floor(b.Z)))
		if !ok {
			continue
		}
		color := buildingShades[(b.Height-1)%len(buildingShades)]
		for i := 0; i < b.Height*2; i++ {
			x := leftEdge - i
			if b.Side == core.SideRight {
				x = rightEdge + i
			}
			dst.SetWithColor(x, y, BuildingChar, color)
		}
	}
}

func (g *Game) drawHUD(dst *platformcore.Screen, snap core.Snapshot) {
	best := snap.Session.Best
	if snap.Session.Score > best {
		best = snap.Session.Score
	}
	hud := fmt.Sprintf(" %s  Score: %d  Best: %d  Row: %d ", g.title, snap.Session.Score, best, snap.Player.Row)
	dst.DrawTextColor(1, 0, hud, platformcore.ColorBrightCyan)

	help := "←↑↓→ hop  P pause  Q quit"
	dst.DrawTextCenteredColor(dst.Height()-1, help, platformcore.ColorGray)
}

func drawBanner(dst *platformcore.Screen, title, subtitle string, color platformcore.Color) {
	w := len([]rune(subtitle)) + 4
	if t := len([]rune(title)) + 4; t > w {
		w = t
	}
	if w > dst.Width() {
		w = dst.Width()
	}
	h := 4
	box := platformcore.NewRect((dst.Width()-w)/2, dst.Height()/2-h/2, w, h)
	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box, color)
	dst.DrawTextCenteredColor(box.Y+1, title, color)
	dst.DrawTextCenteredColor(box.Y+2, subtitle, platformcore.ColorWhite)
}
