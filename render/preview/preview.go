// Package preview shows the scene in an ebiten window, rebuilding it when
// the config file changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smasonuk/beamscene/render"
	"github.com/smasonuk/beamscene/scene"
)

// Preview is the interactive window. It rebuilds the scene whenever the
// config file changes; a config that fails to load keeps the last good
// scene on screen.
type Preview struct {
	path string

	mu     sync.Mutex
	world  *render.World
	cfg    scene.Config
	status string

	lastX, lastY int
	dragged      bool
}

// NewPreview loads the config at path, or the defaults when path is empty,
// and builds the first scene.
func NewPreview(ctx context.Context, path string) (*Preview, error) {
	p := &Preview{path: path}
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Preview) loadConfig() (scene.Config, error) {
	if p.path == "" {
		return scene.DefaultConfig(), nil
	}
	return scene.LoadConfig(p.path)
}

func (p *Preview) Reload(ctx context.Context) error {
	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}
	world, report, err := render.BuildWorld(ctx, cfg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.world = world
	p.cfg = cfg
	p.status = fmt.Sprintf("%d objects, %d faces, built in %v",
		len(world.Visible()), world.FaceCount(), report.Elapsed.Round(time.Millisecond))
	return nil
}

// Watch rebuilds the scene on every change to the config file until ctx
// is done. The directory is watched so editors that replace the file are
// followed.
func (p *Preview) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("watch %s: %w", p.path, err)
	}
	name := filepath.Clean(p.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := p.Reload(ctx); err != nil {
				slog.Error("reload failed, keeping previous scene", "path", p.path, "err", err)
				p.setStatus("reload failed: " + err.Error())
				continue
			}
			slog.Info("scene reloaded", "path", p.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watcher", "err", err)
		}
	}
}

func (p *Preview) setStatus(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = s
}

// Size is the window size in pixels: the render resolution at its
// percentage.
func (p *Preview) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.cfg.Render
	return r.ResolutionX * r.Percentage / 100, r.ResolutionY * r.Percentage / 100
}

func (p *Preview) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	cam := p.world.Camera()
	if cam == nil {
		return nil
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if p.dragged {
			cam.AddAngle(float64(x-p.lastX) * 0.01)
		}
		p.dragged = true
	} else {
		p.dragged = false
	}
	p.lastX, p.lastY = x, y

	if _, dy := ebiten.Wheel(); dy != 0 {
		cam.Zoom(1 + dy*0.1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		cam.Reset()
	}
	return nil
}

func (p *Preview) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()

	screen.Fill(p.world.Background)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	p.world.PaintObjects(&ImageBatcher{Screen: screen}, w, h)
	ebitenutil.DebugPrint(screen, p.status)
}

func (p *Preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.Size()
}

// Run opens the preview window and blocks until it is closed.
func Run(ctx context.Context, path string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := NewPreview(ctx, path)
	if err != nil {
		return err
	}

	go func() {
		if err := p.Watch(ctx); err != nil {
			slog.Error("config watch stopped", "err", err)
		}
	}()

	w, h := p.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("beamscene preview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(p); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
