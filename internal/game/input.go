package game

import (
	"castlight/internal/game/keytracker"
	"castlight/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
)

// readIntent maps the arrow keys, and WASD, to movement intents.
func readIntent(keys *keytracker.Tracker) scene.Intent {
	anyOf := func(ks ...ebiten.Key) bool {
		for _, k := range ks {
			if keys.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}
	return scene.Intent{
		Forward:   anyOf(ebiten.KeyArrowUp, ebiten.KeyW),
		Backward:  anyOf(ebiten.KeyArrowDown, ebiten.KeyS),
		TurnLeft:  anyOf(ebiten.KeyArrowLeft, ebiten.KeyA),
		TurnRight: anyOf(ebiten.KeyArrowRight, ebiten.KeyD),
	}
}
