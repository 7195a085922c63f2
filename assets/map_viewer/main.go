package main

import (
	"castlight/internal/config"
	"castlight/internal/graphics"
	"castlight/internal/logger"
	"castlight/internal/render"
	"castlight/internal/scene"
	"castlight/internal/surface"
	"castlight/internal/texture"
	"castlight/internal/world"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
	previewH     = 220
)

type mapInfo struct {
	Path string
	Data *world.MapData
	Err  error
}

type viewer struct {
	cfg      *config.Config
	maps     []mapInfo
	mapIndex int
	preview  bool
	store    *texture.Store
	renderer *render.Renderer
	surface  *graphics.EbitenSurface
}

func main() {
	ensureRuntimeCWD()
	logger.Init()
	log := logger.Component("map_viewer")

	dir := flag.String("maps", "assets/maps", "directory of map files")
	snapshot := flag.String("png", "", "render the first map's start view to this PNG file and exit")
	flag.Parse()

	cfg := config.MustLoadConfig("config.yaml")
	maps := loadMaps(*dir)
	for _, m := range maps {
		entry := log.WithField("map", m.Path)
		if m.Err != nil {
			entry.WithError(m.Err).Warn("map failed to load")
			continue
		}
		entry.WithFields(logrus.Fields{"loaded": m.Data.Stats.Loaded, "skipped": m.Data.Stats.Skipped}).Info("map ok")
	}

	store := texture.NewStore()
	renderer := render.NewRenderer(render.Options{
		Epsilon: cfg.GetEpsilon(),
		Ceiling: cfg.GetCeilingColor(),
		Floor:   cfg.GetFloorColor(),
	})

	if *snapshot != "" {
		if err := writeSnapshot(*snapshot, cfg, maps, store, renderer); err != nil {
			log.WithError(err).Fatal("snapshot failed")
		}
		return
	}

	v := &viewer{cfg: cfg, maps: maps, preview: true, store: store, renderer: renderer}
	v.publishTextures()

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("castlight map viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.WithError(err).Fatal("viewer exited")
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.preview = !v.preview
	}
	if len(v.maps) == 0 {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.mapIndex = (v.mapIndex + 1) % len(v.maps)
		v.publishTextures()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.mapIndex = (v.mapIndex - 1 + len(v.maps)) % len(v.maps)
		v.publishTextures()
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.maps) == 0 {
		ebitenutil.DebugPrintAt(screen, "no maps loaded", 16, 16)
		return
	}
	m := v.maps[v.mapIndex]
	if m.Err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("map %s failed to load: %v", m.Path, m.Err), 16, 16)
		return
	}
	if v.surface == nil {
		v.surface = graphics.NewEbitenSurface()
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	if v.preview {
		mapAreaH -= previewH + padding
	}

	v.drawMapPanel(screen, m, padding, padding, mapAreaW, mapAreaH)
	drawSidebar(screen, m, padding*2+mapAreaW, padding, sidebarWidth, screenH-padding*2)

	if v.preview {
		top := screenH - padding - previewH
		sub := screen.SubImage(image.Rect(padding, top, padding+mapAreaW, top+previewH)).(*ebiten.Image)
		v.surface.SetTarget(sub)
		v.renderer.Frame(startCamera(v.cfg, m.Data), m.Data.Grid, v.store, nil, v.surface)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return windowWidth, windowHeight
	}
	return outsideWidth, outsideHeight
}

func (v *viewer) publishTextures() {
	if len(v.maps) == 0 || v.maps[v.mapIndex].Data == nil {
		return
	}
	publishPlaceholders(v.store, v.maps[v.mapIndex].Data.Grid, v.cfg.GetPlaceholderSize())
}

func (v *viewer) drawMapPanel(screen *ebiten.Image, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	lo, hi, ok := m.Data.Grid.Bounds()
	if !ok {
		ebitenutil.DebugPrintAt(screen, "empty map", x+12, y+12)
		return
	}
	cols := hi.Col - lo.Col + 1
	rows := hi.Row - lo.Row + 1
	tileSize := max(2, min((w-24)/cols, (h-48)/rows))
	originX := x + (w-cols*tileSize)/2
	originY := y + 40 + (h-40-rows*tileSize)/2

	v.surface.SetTarget(screen)
	minimap := &scene.Minimap{
		Grid:   func() *world.Grid { return m.Data.Grid },
		Scale:  float64(tileSize),
		Margin: 0,
	}
	v.surface.SetTransform(surface.Translate(float64(originX), float64(originY)))
	minimap.Paint(v.surface)
	v.surface.ResetTransform()

	toScreen := func(c world.Cell) (float32, float32) {
		return float32(originX + (c.Col-lo.Col)*tileSize + tileSize/2), float32(originY + (c.Row-lo.Row)*tileSize + tileSize/2)
	}
	if m.Data.Start != nil {
		cx, cy := toScreen(*m.Data.Start)
		vector.DrawFilledCircle(screen, cx, cy, float32(tileSize)*0.35, color.RGBA{50, 200, 255, 255}, true)
	}
	for _, spawn := range m.Data.ChaserSpawns {
		cx, cy := toScreen(spawn)
		vector.DrawFilledCircle(screen, cx, cy, float32(tileSize)*0.35, color.RGBA{230, 80, 80, 255}, true)
	}

	ebitenutil.DebugPrintAt(screen, m.Path, x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch maps, P preview, Esc to quit", x+12, y+24)
}

func drawSidebar(screen *ebiten.Image, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	for i, line := range infoLines(m) {
		ebitenutil.DebugPrintAt(screen, line, x+10, y+12+i*14)
	}
}

// infoLines summarises a map for the sidebar.
func infoLines(m mapInfo) []string {
	if m.Err != nil {
		return []string{"error: " + m.Err.Error()}
	}
	lines := []string{
		"file: " + filepath.Base(m.Path),
		fmt.Sprintf("tiles: %d", m.Data.Grid.Len()),
		fmt.Sprintf("loaded: %d  skipped: %d", m.Data.Stats.Loaded, m.Data.Stats.Skipped),
	}
	if lo, hi, ok := m.Data.Grid.Bounds(); ok {
		lines = append(lines, fmt.Sprintf("bounds: %s .. %s", lo, hi))
	}
	if m.Data.Start != nil {
		lines = append(lines, "start: "+m.Data.Start.String())
	} else {
		lines = append(lines, "start: (config)")
	}
	lines = append(lines, fmt.Sprintf("chasers: %d", len(m.Data.ChaserSpawns)))

	counts := map[world.MaterialID]int{}
	for _, c := range m.Data.Grid.Cells() {
		id, _ := m.Data.Grid.At(c.Col, c.Row)
		counts[id]++
	}
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	lines = append(lines, "", "materials:")
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("  %d: %d cells", id, counts[world.MaterialID(id)]))
	}
	return lines
}

func loadMaps(dir string) []mapInfo {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []mapInfo{{Path: dir, Err: fmt.Errorf("failed to read map directory: %w", err)}}
	}
	var maps []mapInfo
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			continue
		}
		if _, err := world.FormatForPath(path); err != nil {
			continue
		}
		data, err := world.LoadMap(path)
		maps = append(maps, mapInfo{Path: path, Data: data, Err: err})
	}
	sort.Slice(maps, func(i, j int) bool { return strings.ToLower(maps[i].Path) < strings.ToLower(maps[j].Path) })
	return maps
}

func startCamera(cfg *config.Config, data *world.MapData) *scene.Camera {
	x, z := cfg.Camera.StartX, cfg.Camera.StartZ
	if data.Start != nil {
		x, z = float64(data.Start.Col)+0.5, float64(data.Start.Row)+0.5
	}
	cam := scene.NewCamera(x, z, cfg.GetRayCount(), cfg.GetRenderDistance())
	cam.FOV = cfg.GetFOV()
	cam.Rotation = cfg.Camera.StartRotation
	return cam
}

// writeSnapshot renders the start view of the first loadable map with the
// software canvas.
func writeSnapshot(path string, cfg *config.Config, maps []mapInfo, store *texture.Store, renderer *render.Renderer) error {
	for _, m := range maps {
		if m.Err != nil {
			continue
		}
		publishPlaceholders(store, m.Data.Grid, cfg.GetPlaceholderSize())
		canvas := surface.NewCanvas(cfg.GetScreenWidth(), cfg.GetScreenHeight())
		canvas.SetBackground(color.Black)
		renderer.Frame(startCamera(cfg, m.Data), m.Data.Grid, store, nil, canvas)

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		if err := png.Encode(f, canvas.Image()); err != nil {
			f.Close()
			return fmt.Errorf("encode snapshot: %w", err)
		}
		return f.Close()
	}
	return fmt.Errorf("no loadable map")
}

func publishPlaceholders(store *texture.Store, grid *world.Grid, size int) {
	for _, c := range grid.Cells() {
		id, _ := grid.At(c.Col, c.Row)
		if _, ok := store.Snapshot().Get(id); !ok {
			store.Publish(id, texture.Placeholder(id, size))
		}
	}
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}
